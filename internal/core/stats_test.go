package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tlEvent(typ EventType, ts time.Time) TimelineEvent {
	return TimelineEvent{EventRecord: EventRecord{Type: typ, Timestamp: ts}}
}

func TestSummarizeCounts(t *testing.T) {
	users := []*UserTimeline{
		{
			Recipient: "alice@example.com",
			Status:    EventSubmitted,
			Events: []TimelineEvent{
				tlEvent(EventSent, at(9, 0)),
				tlEvent(EventOpened, at(9, 30)),
				tlEvent(EventClicked, at(9, 45)),
				tlEvent(EventSubmitted, at(9, 50)),
			},
		},
		{
			Recipient: "bob@example.com",
			Status:    EventOpened,
			Events: []TimelineEvent{
				tlEvent(EventSent, at(9, 0)),
				tlEvent(EventOpened, at(11, 0)),
			},
		},
		{
			Recipient: "carol@example.com",
			Status:    EventSent,
			Events: []TimelineEvent{
				tlEvent(EventSent, at(9, 0)),
			},
		},
	}

	stats := Summarize(users)

	assert.Equal(t, 3, stats.TotalTargets)
	assert.Equal(t, 3, stats.SentCount)
	assert.Equal(t, 2, stats.OpenCount)
	assert.Equal(t, 1, stats.ClickCount)
	assert.Equal(t, 1, stats.SubmitCount)
}

func TestSummarizeFunnelCountsEachUserOnce(t *testing.T) {
	users := []*UserTimeline{
		{Recipient: "a@x", Status: EventSubmitted, Events: []TimelineEvent{
			tlEvent(EventSent, at(9, 0)),
			tlEvent(EventOpened, at(9, 10)),
			tlEvent(EventSubmitted, at(9, 20)),
		}},
		{Recipient: "b@x", Status: EventClicked, Events: []TimelineEvent{
			tlEvent(EventSent, at(9, 0)),
			tlEvent(EventClicked, at(9, 15)),
		}},
		{Recipient: "c@x", Status: EventOpened, Events: []TimelineEvent{
			tlEvent(EventSent, at(9, 0)),
			tlEvent(EventOpened, at(9, 5)),
		}},
		{Recipient: "d@x", Status: EventSent, Events: []TimelineEvent{
			tlEvent(EventSent, at(9, 0)),
		}},
	}

	stats := Summarize(users)

	assert.Equal(t, 1, stats.OpenedOnly)
	assert.Equal(t, 1, stats.ClickedOnly)
	assert.Equal(t, 1, stats.SubmittedCreds)
}

func TestSummarizeTimelineZeroFillsGaps(t *testing.T) {
	users := []*UserTimeline{
		{Recipient: "a@x", Status: EventOpened, Events: []TimelineEvent{
			tlEvent(EventSent, at(9, 10)),
			tlEvent(EventOpened, at(12, 45)),
		}},
	}

	stats := Summarize(users)

	require.Len(t, stats.Timeline, 4)
	assert.Equal(t, at(9, 0), stats.Timeline[0].Hour)
	assert.Equal(t, 1, stats.Timeline[0].Count)
	assert.Equal(t, 0, stats.Timeline[1].Count)
	assert.Equal(t, 0, stats.Timeline[2].Count)
	assert.Equal(t, at(12, 0), stats.Timeline[3].Hour)
	assert.Equal(t, 1, stats.Timeline[3].Count)
}

func TestSummarizeEmptyInput(t *testing.T) {
	stats := Summarize(nil)

	assert.Zero(t, stats.TotalTargets)
	assert.Empty(t, stats.Timeline)
	assert.Empty(t, stats.UserAgents)
	assert.Empty(t, stats.Credentials)
}

func TestSummarizeUserAgentsSortedByCount(t *testing.T) {
	firefox := TimelineEvent{EventRecord: EventRecord{
		Type: EventOpened, Timestamp: at(9, 0), UserAgent: "Firefox/120",
	}}
	chrome := TimelineEvent{EventRecord: EventRecord{
		Type: EventClicked, Timestamp: at(9, 5), UserAgent: "Chrome/121",
	}}
	users := []*UserTimeline{
		{Recipient: "a@x", Status: EventClicked, Events: []TimelineEvent{firefox, chrome}},
		{Recipient: "b@x", Status: EventClicked, Events: []TimelineEvent{chrome}},
	}

	stats := Summarize(users)

	require.Len(t, stats.UserAgents, 2)
	assert.Equal(t, UserAgentCount{UserAgent: "Chrome/121", Count: 2}, stats.UserAgents[0])
	assert.Equal(t, UserAgentCount{UserAgent: "Firefox/120", Count: 1}, stats.UserAgents[1])
}

func TestSummarizeCredentials(t *testing.T) {
	later := TimelineEvent{EventRecord: EventRecord{
		Type:      EventSubmitted,
		Timestamp: at(11, 0),
		IP:        "8.8.8.8",
		Submitted: map[string]string{"username": "bob", "token": "t0k"},
	}}
	earlier := TimelineEvent{EventRecord: EventRecord{
		Type:      EventSubmitted,
		Timestamp: at(10, 0),
		Submitted: map[string]string{"username": "alice", "password": "secret123"},
	}}
	users := []*UserTimeline{
		{Recipient: "bob@x", Status: EventSubmitted, Events: []TimelineEvent{later}},
		{Recipient: "alice@x", Status: EventSubmitted, Events: []TimelineEvent{earlier}},
	}

	stats := Summarize(users)

	// Union of field names, sorted.
	assert.Equal(t, []string{"password", "token", "username"}, stats.FieldNames)

	// Captures ordered by timestamp, values untouched.
	require.Len(t, stats.Credentials, 2)
	assert.Equal(t, "alice@x", stats.Credentials[0].Recipient)
	assert.Equal(t, "secret123", stats.Credentials[0].Fields["password"])
	assert.Equal(t, "bob@x", stats.Credentials[1].Recipient)
	assert.Equal(t, "8.8.8.8", stats.Credentials[1].IP)
}
