package core

import (
	"context"
)

// GeoResolver maps an IP address to geolocation data. Implementations
// must never fail the run: problems are encoded in the GeoInfo status.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) GeoInfo
}

// Loader reads the raw export into rows, preserving file order.
type Loader interface {
	Load(path string) ([]RawRow, error)
}

// Renderer writes the final report and returns the path it wrote.
type Renderer interface {
	Render(report *Report) (string, error)
}

// NarrativeClient produces a short analyst narrative from a plain-text
// digest of the campaign statistics.
type NarrativeClient interface {
	SummarizeCampaign(ctx context.Context, digest string) (string, error)
}

// ProgressSink receives operator-facing progress. The pipeline has no
// direct console dependency; tests inject a silent sink.
type ProgressSink interface {
	Info(msg string)
	Action(msg string)
	Progress(stage string, done, total int)
	Success(msg string)
}
