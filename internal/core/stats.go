package core

import (
	"sort"
	"time"
)

// Summarize derives campaign-wide statistics from the per-user
// timelines. Credential values pass through verbatim; the renderer owns
// masking.
func Summarize(users []*UserTimeline) *CampaignStats {
	stats := &CampaignStats{}

	uaCounts := make(map[string]int)
	fieldNames := make(map[string]struct{})
	var first, last time.Time
	buckets := make(map[time.Time]int)

	for _, tl := range users {
		sawSent := false
		for _, ev := range tl.Events {
			switch ev.Type {
			case EventSent:
				stats.SentCount++
				sawSent = true
			case EventOpened:
				stats.OpenCount++
			case EventClicked:
				stats.ClickCount++
			case EventSubmitted:
				stats.SubmitCount++
			}

			hour := ev.Timestamp.Truncate(time.Hour)
			buckets[hour]++
			if first.IsZero() || hour.Before(first) {
				first = hour
			}
			if last.IsZero() || hour.After(last) {
				last = hour
			}

			if ev.UserAgent != "" {
				uaCounts[ev.UserAgent]++
			}

			if ev.Type == EventSubmitted && len(ev.Submitted) > 0 {
				for name := range ev.Submitted {
					fieldNames[name] = struct{}{}
				}
				stats.Credentials = append(stats.Credentials, CredentialCapture{
					Recipient: tl.Recipient,
					Timestamp: ev.Timestamp,
					IP:        ev.IP,
					Geo:       ev.Geo,
					Fields:    ev.Submitted,
				})
			}
		}

		if sawSent {
			stats.TotalTargets++
		}

		// Funnel: each user counted once, by furthest step reached.
		switch tl.Status {
		case EventOpened:
			stats.OpenedOnly++
		case EventClicked:
			stats.ClickedOnly++
		case EventSubmitted:
			stats.SubmittedCreds++
		}
	}

	// Hourly buckets with zero-filled gaps across the observed range.
	if !first.IsZero() {
		for hour := first; !hour.After(last); hour = hour.Add(time.Hour) {
			stats.Timeline = append(stats.Timeline, TimeBucket{Hour: hour, Count: buckets[hour]})
		}
	}

	for ua, count := range uaCounts {
		stats.UserAgents = append(stats.UserAgents, UserAgentCount{UserAgent: ua, Count: count})
	}
	sort.Slice(stats.UserAgents, func(i, j int) bool {
		if stats.UserAgents[i].Count != stats.UserAgents[j].Count {
			return stats.UserAgents[i].Count > stats.UserAgents[j].Count
		}
		return stats.UserAgents[i].UserAgent < stats.UserAgents[j].UserAgent
	})

	for name := range fieldNames {
		stats.FieldNames = append(stats.FieldNames, name)
	}
	sort.Strings(stats.FieldNames)

	sort.SliceStable(stats.Credentials, func(i, j int) bool {
		return stats.Credentials[i].Timestamp.Before(stats.Credentials[j].Timestamp)
	})

	return stats
}
