package core

import (
	"fmt"
	"strings"
	"time"
)

// EventType classifies a campaign event by how far the recipient
// progressed. The ordering of the constants is meaningful: a higher
// value means deeper engagement.
type EventType int

const (
	EventSent EventType = iota
	EventOpened
	EventClicked
	EventSubmitted
)

// Export labels as they appear in the CSV's message column.
const (
	labelSent      = "Email Sent"
	labelOpened    = "Email Opened"
	labelClicked   = "Clicked Link"
	labelSubmitted = "Submitted Data"
)

// ParseEventType maps a CSV event label to its EventType.
func ParseEventType(label string) (EventType, error) {
	switch strings.TrimSpace(label) {
	case labelSent:
		return EventSent, nil
	case labelOpened:
		return EventOpened, nil
	case labelClicked:
		return EventClicked, nil
	case labelSubmitted:
		return EventSubmitted, nil
	default:
		return 0, fmt.Errorf("unrecognized event type %q", label)
	}
}

// String returns the human-readable label used in the export and the report.
func (t EventType) String() string {
	switch t {
	case EventSent:
		return labelSent
	case EventOpened:
		return labelOpened
	case EventClicked:
		return labelClicked
	case EventSubmitted:
		return labelSubmitted
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// RawRow is one record from the CSV export, untouched apart from header
// mapping. Line is the 1-based line number in the source file.
type RawRow struct {
	Line      int
	Email     string
	Timestamp string
	Event     string
	Details   string
}

// EventRecord is a normalized campaign event. It is immutable once
// parsed; Submitted holds the captured form fields for Submitted Data
// events only.
type EventRecord struct {
	Recipient string
	Type      EventType
	Timestamp time.Time
	IP        string
	UserAgent string
	Submitted map[string]string
}

// GeoStatus marks how a GeoInfo was produced.
type GeoStatus int

const (
	// GeoUnavailable means there was nothing to look up (no IP, or an
	// address that does not parse).
	GeoUnavailable GeoStatus = iota
	// GeoPrivate means the address is in a private/reserved range and
	// was tagged locally without a network call.
	GeoPrivate
	// GeoResolved means the upstream service answered.
	GeoResolved
	// GeoFailed means the lookup was attempted and failed; it is not
	// retried within a run.
	GeoFailed
)

// GeoInfo is the resolved location/ISP for one IP address.
type GeoInfo struct {
	IP      string
	City    string
	Region  string
	Country string
	ISP     string
	Status  GeoStatus
}

// Location renders the place fields for display, with explicit markers
// for addresses that were never or unsuccessfully looked up.
func (g GeoInfo) Location() string {
	switch g.Status {
	case GeoPrivate:
		return "Private/Reserved"
	case GeoFailed:
		return "Lookup Failed"
	case GeoUnavailable:
		return "N/A"
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{g.City, g.Region, g.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, ", ")
}

// Provider renders the ISP field for display.
func (g GeoInfo) Provider() string {
	if g.Status != GeoResolved {
		return "N/A"
	}
	if g.ISP == "" {
		return "Unknown"
	}
	return g.ISP
}

// TimelineEvent is an EventRecord with its geolocation attached.
type TimelineEvent struct {
	EventRecord
	Geo GeoInfo
}

// UserTimeline holds one recipient's events ordered by timestamp
// ascending, and the highest-progression status they reached.
type UserTimeline struct {
	Recipient string
	Events    []TimelineEvent
	Status    EventType
}

// TimeBucket is one hour of the campaign timeline.
type TimeBucket struct {
	Hour  time.Time
	Count int
}

// UserAgentCount is one user-agent string and how often it was seen.
type UserAgentCount struct {
	UserAgent string
	Count     int
}

// CredentialCapture is one Submitted Data event with its captured form
// fields. Values are passed through unredacted; masking is a concern of
// the rendered report, not of the data model.
type CredentialCapture struct {
	Recipient string
	Timestamp time.Time
	IP        string
	Geo       GeoInfo
	Fields    map[string]string
}

// CampaignStats are the campaign-wide aggregates handed to the renderer.
type CampaignStats struct {
	TotalTargets int
	SentCount    int
	OpenCount    int
	ClickCount   int
	SubmitCount  int

	// Funnel buckets: each user counted once, by the furthest step reached.
	OpenedOnly     int
	ClickedOnly    int
	SubmittedCreds int

	Timeline    []TimeBucket
	UserAgents  []UserAgentCount
	FieldNames  []string
	Credentials []CredentialCapture
}

// Report is everything the renderer needs for one run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Stats       *CampaignStats
	Users       []*UserTimeline
	Narrative   string
}

// RunSummary reports what a pipeline run did, including the rows and
// lookups that were skipped or failed along the way.
type RunSummary struct {
	ReportPath    string
	RowsTotal     int
	RowsProcessed int
	SkippedEvents int
	SkippedTimes  int
	SkippedRows   int
	DistinctIPs   int
	FailedLookups int
	Recipients    int
}
