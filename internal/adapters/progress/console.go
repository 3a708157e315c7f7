package progress

import (
	"fmt"
	"io"
)

// ConsoleSink writes operator-facing progress lines. The format is
// advisory, not machine-parsed:
//
//	[ * ] Starting data processing...
//	[ + ] Performing IP lookups...
//	[ * ] Performing IP lookups... 10/42
//	[ v ] IP lookup complete.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a sink writing to w (normally os.Stdout).
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Info(msg string) {
	fmt.Fprintf(s.w, "[ * ] %s\n", msg)
}

func (s *ConsoleSink) Action(msg string) {
	fmt.Fprintf(s.w, "[ + ] %s\n", msg)
}

func (s *ConsoleSink) Progress(stage string, done, total int) {
	fmt.Fprintf(s.w, "[ * ] %s... %d/%d\n", stage, done, total)
}

func (s *ConsoleSink) Success(msg string) {
	fmt.Fprintf(s.w, "[ v ] %s\n", msg)
}

// SilentSink discards all progress. Used by tests and -quiet runs.
type SilentSink struct{}

// NewSilentSink creates a sink that drops everything.
func NewSilentSink() *SilentSink { return &SilentSink{} }

func (s *SilentSink) Info(msg string)                        {}
func (s *SilentSink) Action(msg string)                      {}
func (s *SilentSink) Progress(stage string, done, total int) {}
func (s *SilentSink) Success(msg string)                     {}
