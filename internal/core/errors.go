package core

import "fmt"

// InputError is a fatal problem with the export file itself: missing,
// unreadable, or structurally wrong. It aborts the run.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input: %s: %v", e.Msg, e.Err)
	}
	return "input: " + e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

// ParseError is a row-level failure: an unrecognized event label or a
// malformed details payload. The row is skipped and the run continues.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TimestampError is a row-level failure to parse the time column.
type TimestampError struct {
	Line  int
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: unparseable timestamp %q: %v", e.Line, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// LookupError is a per-IP geolocation failure. The IP is marked
// unresolved and the run continues.
type LookupError struct {
	IP  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.IP, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ConfigError is a missing or unusable setting. For the geolocation
// token it degrades every lookup to unresolved rather than aborting.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Setting, e.Reason)
}
