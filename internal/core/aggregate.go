package core

import (
	"context"
	"sort"
)

// Aggregate folds normalized events into per-recipient timelines. Each
// group is sorted by timestamp ascending; the sort is stable so rows
// with equal timestamps keep their file order. GeoInfo is attached to
// every event that carries a source IP.
func Aggregate(ctx context.Context, events []*EventRecord, resolver GeoResolver) map[string]*UserTimeline {
	timelines := make(map[string]*UserTimeline)

	for _, ev := range events {
		if ev.Recipient == "" {
			continue
		}
		tl, ok := timelines[ev.Recipient]
		if !ok {
			tl = &UserTimeline{Recipient: ev.Recipient, Status: EventSent}
			timelines[ev.Recipient] = tl
		}

		entry := TimelineEvent{EventRecord: *ev}
		if ev.IP != "" {
			entry.Geo = resolver.Resolve(ctx, ev.IP)
		} else {
			entry.Geo = GeoInfo{Status: GeoUnavailable}
		}
		tl.Events = append(tl.Events, entry)

		if ev.Type > tl.Status {
			tl.Status = ev.Type
		}
	}

	for _, tl := range timelines {
		events := tl.Events
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp.Before(events[j].Timestamp)
		})
	}

	return timelines
}

// SortedTimelines returns the timelines ordered by recipient so the
// rendered report is deterministic across runs.
func SortedTimelines(timelines map[string]*UserTimeline) []*UserTimeline {
	users := make([]*UserTimeline, 0, len(timelines))
	for _, tl := range timelines {
		users = append(users, tl)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Recipient < users[j].Recipient
	})
	return users
}
