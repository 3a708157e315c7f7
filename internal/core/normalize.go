package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/utils"
)

// Normalizer turns raw CSV rows into EventRecords.
type Normalizer struct {
	logger *zap.Logger
	text   *utils.TextProcessor
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(logger *zap.Logger, text *utils.TextProcessor) *Normalizer {
	return &Normalizer{
		logger: logger,
		text:   text,
	}
}

// detailsPayload is the JSON structure embedded in the details column.
// GoPhish encodes form values as either a string or a list of strings,
// so payload values go through stringList.
type detailsPayload struct {
	Browser struct {
		Address   string `json:"address"`
		UserAgent string `json:"user-agent"`
	} `json:"browser"`
	Payload map[string]stringList `json:"payload"`
}

type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = []string{single}
	return nil
}

func (s stringList) first() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// decodeDetails parses the embedded details JSON. A malformed payload is
// a normal, reportable error path, not a structural panic.
func decodeDetails(raw string) (*detailsPayload, error) {
	var d detailsPayload
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Normalize classifies one raw row and extracts its structured fields.
// It returns *ParseError for unrecognized labels or malformed details
// and *TimestampError for unparseable timestamps; both mean "skip the
// row, keep going".
func (n *Normalizer) Normalize(row RawRow) (*EventRecord, error) {
	eventType, err := ParseEventType(row.Event)
	if err != nil {
		return nil, &ParseError{Line: row.Line, Reason: "event type", Err: err}
	}

	ts, err := dateparse.ParseIn(strings.TrimSpace(row.Timestamp), time.UTC)
	if err != nil {
		return nil, &TimestampError{Line: row.Line, Value: row.Timestamp, Err: err}
	}

	record := &EventRecord{
		Recipient: strings.TrimSpace(row.Email),
		Type:      eventType,
		Timestamp: ts.UTC(),
	}

	// Sent rows carry no details; that is valid.
	if strings.TrimSpace(row.Details) == "" {
		return record, nil
	}

	details, err := decodeDetails(row.Details)
	if err != nil {
		return nil, &ParseError{Line: row.Line, Reason: "details payload", Err: err}
	}

	record.IP = strings.TrimSpace(details.Browser.Address)
	record.UserAgent = n.text.SanitizeUTF8(details.Browser.UserAgent)

	if eventType == EventSubmitted {
		record.Submitted = n.submittedFields(details.Payload)
	}

	return record, nil
}

// submittedFields extracts the captured form fields from a Submitted
// Data payload. client_id is GoPhish plumbing, not a captured value.
func (n *Normalizer) submittedFields(payload map[string]stringList) map[string]string {
	fields := make(map[string]string, len(payload))
	for key, values := range payload {
		if key == "client_id" {
			continue
		}
		fields[key] = n.text.SanitizeUTF8(values.first())
	}
	return fields
}
