package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver returns a canned GeoInfo per IP and records every call.
type stubResolver struct {
	results map[string]GeoInfo
	calls   []string
}

func (r *stubResolver) Resolve(ctx context.Context, ip string) GeoInfo {
	r.calls = append(r.calls, ip)
	if info, ok := r.results[ip]; ok {
		return info
	}
	return GeoInfo{IP: ip, Status: GeoFailed}
}

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 15, hour, min, 0, 0, time.UTC)
}

func TestAggregateGroupsByRecipient(t *testing.T) {
	events := []*EventRecord{
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "bob@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "alice@example.com", Type: EventOpened, Timestamp: at(9, 30)},
	}

	timelines := Aggregate(context.Background(), events, &stubResolver{})
	require.Len(t, timelines, 2)
	assert.Len(t, timelines["alice@example.com"].Events, 2)
	assert.Len(t, timelines["bob@example.com"].Events, 1)
}

func TestAggregateSortsEventsByTimestamp(t *testing.T) {
	events := []*EventRecord{
		{Recipient: "alice@example.com", Type: EventClicked, Timestamp: at(10, 0)},
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "alice@example.com", Type: EventOpened, Timestamp: at(9, 30)},
	}

	timelines := Aggregate(context.Background(), events, &stubResolver{})
	tl := timelines["alice@example.com"]
	require.Len(t, tl.Events, 3)
	assert.Equal(t, EventSent, tl.Events[0].Type)
	assert.Equal(t, EventOpened, tl.Events[1].Type)
	assert.Equal(t, EventClicked, tl.Events[2].Type)
}

func TestAggregateStableOnEqualTimestamps(t *testing.T) {
	ts := at(9, 0)
	events := []*EventRecord{
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: ts, IP: ""},
		{Recipient: "alice@example.com", Type: EventOpened, Timestamp: ts},
		{Recipient: "alice@example.com", Type: EventClicked, Timestamp: ts},
	}

	timelines := Aggregate(context.Background(), events, &stubResolver{})
	tl := timelines["alice@example.com"]
	require.Len(t, tl.Events, 3)
	assert.Equal(t, EventSent, tl.Events[0].Type)
	assert.Equal(t, EventOpened, tl.Events[1].Type)
	assert.Equal(t, EventClicked, tl.Events[2].Type)
}

func TestAggregateStatusIsFurthestStep(t *testing.T) {
	events := []*EventRecord{
		{Recipient: "alice@example.com", Type: EventSubmitted, Timestamp: at(10, 0)},
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "bob@example.com", Type: EventSent, Timestamp: at(9, 0)},
	}

	timelines := Aggregate(context.Background(), events, &stubResolver{})
	assert.Equal(t, EventSubmitted, timelines["alice@example.com"].Status)
	assert.Equal(t, EventSent, timelines["bob@example.com"].Status)
}

func TestAggregateAttachesGeoOnlyForEventsWithIP(t *testing.T) {
	resolver := &stubResolver{results: map[string]GeoInfo{
		"8.8.8.8": {IP: "8.8.8.8", City: "Mountain View", Country: "US", Status: GeoResolved},
	}}
	events := []*EventRecord{
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "alice@example.com", Type: EventClicked, Timestamp: at(10, 0), IP: "8.8.8.8"},
	}

	timelines := Aggregate(context.Background(), events, resolver)
	tl := timelines["alice@example.com"]
	require.Len(t, tl.Events, 2)
	assert.Equal(t, GeoUnavailable, tl.Events[0].Geo.Status)
	assert.Equal(t, GeoResolved, tl.Events[1].Geo.Status)
	assert.Equal(t, []string{"8.8.8.8"}, resolver.calls)
}

func TestSortedTimelinesOrderedByRecipient(t *testing.T) {
	events := []*EventRecord{
		{Recipient: "carol@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "alice@example.com", Type: EventSent, Timestamp: at(9, 0)},
		{Recipient: "bob@example.com", Type: EventSent, Timestamp: at(9, 0)},
	}

	users := SortedTimelines(Aggregate(context.Background(), events, &stubResolver{}))
	require.Len(t, users, 3)
	assert.Equal(t, "alice@example.com", users[0].Recipient)
	assert.Equal(t, "bob@example.com", users[1].Recipient)
	assert.Equal(t, "carol@example.com", users[2].Recipient)
}
