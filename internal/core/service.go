package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress cadences, matching the operator transcript: row extraction
// reports every 200 rows, IP lookups every 10 addresses.
const (
	rowProgressEvery = 200
	ipProgressEvery  = 10
)

// ReportService runs the whole pipeline: load, normalize, resolve,
// aggregate, summarize, render. It is single-threaded and sequential;
// the only shared mutable state is the resolver's cache, which the
// resolver owns.
type ReportService struct {
	loader     Loader
	normalizer *Normalizer
	resolver   GeoResolver
	renderer   Renderer
	narrative  NarrativeClient
	progress   ProgressSink
	logger     *zap.Logger
}

// NewReportService creates a new report pipeline. narrative may be nil,
// in which case the report carries no analyst narrative.
func NewReportService(
	loader Loader,
	normalizer *Normalizer,
	resolver GeoResolver,
	renderer Renderer,
	narrative NarrativeClient,
	progress ProgressSink,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		loader:     loader,
		normalizer: normalizer,
		resolver:   resolver,
		renderer:   renderer,
		narrative:  narrative,
		progress:   progress,
		logger:     logger,
	}
}

// Run executes one report generation against the given export file.
// Row-level and per-IP failures are counted and logged; only an
// InputError or a failure to write the report returns an error.
func (s *ReportService) Run(ctx context.Context, csvPath string) (*RunSummary, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	summary := &RunSummary{}

	s.progress.Info("Starting data processing...")

	s.progress.Action("Reading CSV file...")
	rows, err := s.loader.Load(csvPath)
	if err != nil {
		return nil, err
	}
	summary.RowsTotal = len(rows)
	s.progress.Success(fmt.Sprintf("CSV loaded. Rows: %d", len(rows)))

	s.progress.Action("Extracting details...")
	events := s.normalizeRows(rows, summary, logger)
	s.progress.Success("Details extraction complete.")

	s.progress.Action("Performing IP lookups...")
	s.prefetchLookups(ctx, events, summary)
	s.progress.Success("IP lookup complete.")

	s.progress.Action("Building user data...")
	timelines := Aggregate(ctx, events, s.resolver)
	users := SortedTimelines(timelines)
	summary.Recipients = len(users)
	s.progress.Success("User data build complete.")

	s.progress.Action("Generating statistics...")
	stats := Summarize(users)

	report := &Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Stats:       stats,
		Users:       users,
	}

	if s.narrative != nil {
		report.Narrative = s.generateNarrative(ctx, stats, logger)
	}

	path, err := s.renderer.Render(report)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	summary.ReportPath = path
	s.progress.Success("Report saved: " + path)

	if skipped := summary.SkippedRows; skipped > 0 {
		logger.Warn("Some rows were skipped",
			zap.Int("skipped_total", skipped),
			zap.Int("unrecognized_events", summary.SkippedEvents),
			zap.Int("bad_timestamps", summary.SkippedTimes))
	}

	return summary, nil
}

// normalizeRows classifies every row, counting rather than propagating
// row-level failures.
func (s *ReportService) normalizeRows(rows []RawRow, summary *RunSummary, logger *zap.Logger) []*EventRecord {
	events := make([]*EventRecord, 0, len(rows))
	total := len(rows)

	for i, row := range rows {
		record, err := s.normalizer.Normalize(row)
		if err != nil {
			summary.SkippedRows++
			var parseErr *ParseError
			var tsErr *TimestampError
			switch {
			case errors.As(err, &tsErr):
				summary.SkippedTimes++
				logger.Warn("Skipping row with bad timestamp", zap.Error(err))
			case errors.As(err, &parseErr):
				summary.SkippedEvents++
				logger.Debug("Skipping row", zap.Error(err))
			default:
				logger.Warn("Skipping row", zap.Error(err))
			}
		} else if record.Recipient != "" {
			events = append(events, record)
			summary.RowsProcessed++
		} else {
			summary.SkippedRows++
		}

		if done := i + 1; done%rowProgressEvery == 0 || done == total {
			s.progress.Progress("Extracting details", done, total)
		}
	}

	return events
}

// prefetchLookups resolves every distinct IP once, in first-seen order,
// so the aggregation pass below runs entirely on cache hits.
func (s *ReportService) prefetchLookups(ctx context.Context, events []*EventRecord, summary *RunSummary) {
	seen := make(map[string]struct{})
	var distinct []string
	for _, ev := range events {
		if ev.IP == "" {
			continue
		}
		if _, ok := seen[ev.IP]; ok {
			continue
		}
		seen[ev.IP] = struct{}{}
		distinct = append(distinct, ev.IP)
	}
	summary.DistinctIPs = len(distinct)

	for i, ip := range distinct {
		info := s.resolver.Resolve(ctx, ip)
		if info.Status == GeoFailed {
			summary.FailedLookups++
		}
		if done := i + 1; done%ipProgressEvery == 0 || done == len(distinct) {
			s.progress.Progress("Performing IP lookups", done, len(distinct))
		}
	}
}

// generateNarrative asks the configured provider for a short analyst
// paragraph. Provider trouble never blocks the report.
func (s *ReportService) generateNarrative(ctx context.Context, stats *CampaignStats, logger *zap.Logger) string {
	narrative, err := s.narrative.SummarizeCampaign(ctx, DigestStats(stats))
	if err != nil {
		logger.Warn("Narrative generation failed, continuing without it", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(narrative)
}

// DigestStats renders the aggregates as a plain-text digest for the
// narrative providers.
func DigestStats(stats *CampaignStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Phishing simulation results:\n")
	fmt.Fprintf(&b, "Targets: %d\n", stats.TotalTargets)
	fmt.Fprintf(&b, "Emails sent: %d\n", stats.SentCount)
	fmt.Fprintf(&b, "Emails opened: %d\n", stats.OpenCount)
	fmt.Fprintf(&b, "Links clicked: %d\n", stats.ClickCount)
	fmt.Fprintf(&b, "Credentials submitted: %d\n", stats.SubmitCount)
	fmt.Fprintf(&b, "Users who only opened: %d\n", stats.OpenedOnly)
	fmt.Fprintf(&b, "Users who clicked: %d\n", stats.ClickedOnly)
	fmt.Fprintf(&b, "Users who submitted credentials: %d\n", stats.SubmittedCreds)
	if len(stats.UserAgents) > 0 {
		fmt.Fprintf(&b, "Most common user agent: %s (%d events)\n",
			stats.UserAgents[0].UserAgent, stats.UserAgents[0].Count)
	}
	return b.String()
}
