package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/config"
	"github.com/mikey/phish-report/internal/core"
)

//go:embed template.html
var templateHTML string

// timezoneOptions is the zone list offered by the report's timezone
// selector. Conversion happens client-side; the pipeline itself is
// timezone-agnostic and everything it emits is UTC.
var timezoneOptions = []string{
	"Africa/Johannesburg",
	"America/Anchorage",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/New_York",
	"America/Sao_Paulo",
	"Asia/Bangkok",
	"Asia/Dubai",
	"Asia/Kolkata",
	"Asia/Seoul",
	"Asia/Shanghai",
	"Asia/Singapore",
	"Asia/Tokyo",
	"Australia/Brisbane",
	"Australia/Perth",
	"Australia/Sydney",
	"Europe/Berlin",
	"Europe/London",
	"Europe/Madrid",
	"Europe/Moscow",
	"Europe/Paris",
	"Pacific/Auckland",
	"Pacific/Fiji",
	"Pacific/Honolulu",
	"UTC",
}

// HTMLRenderer writes the self-contained interactive report. Chart and
// timezone behavior is client-side (chart.js and luxon from the CDN);
// everything else is embedded in the one output file.
type HTMLRenderer struct {
	outDir string
	title  string
	tmpl   *template.Template
	logger *zap.Logger
}

// NewHTMLRenderer creates a renderer writing into cfg.OutputDir.
func NewHTMLRenderer(cfg config.ReportConfig, logger *zap.Logger) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"json": marshalJS,
	}).Parse(templateHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	return &HTMLRenderer{
		outDir: cfg.OutputDir,
		title:  cfg.Title,
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// marshalJS embeds pre-marshaled JSON into the template's script block.
func marshalJS(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// Render writes the report, named by its generation timestamp, and
// returns the path written. Write failures here are fatal to the run.
func (r *HTMLRenderer) Render(rep *core.Report) (string, error) {
	path := filepath.Join(r.outDir, rep.GeneratedAt.Format("20060102_150405")+".html")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file %q: %w", path, err)
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, r.buildView(rep)); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	r.logger.Info("Report written",
		zap.String("path", path),
		zap.Int("recipients", len(rep.Users)),
		zap.String("run_id", rep.RunID))

	return path, nil
}

type eventView struct {
	Time      string
	Event     string
	IP        string
	Location  string
	ISP       string
	UserAgent string
}

type userView struct {
	Email  string
	Status string
	Events []eventView
}

type credView struct {
	Time     string
	Email    string
	IP       string
	Location string
	ISP      string
	Values   []string
}

type reportView struct {
	Title       string
	RunID       string
	GeneratedAt string
	Narrative   string

	TotalTargets int
	SentCount    int
	OpenCount    int
	ClickCount   int
	SubmitCount  int

	OpenedOnly     int
	ClickedOnly    int
	SubmittedCreds int

	TimezoneOptions []string
	TimelineTimes   []string
	TimelineCounts  []int
	UALabels        []string
	UACounts        []int

	FieldNames  []string
	Credentials []credView
	Users       []userView
}

func (r *HTMLRenderer) buildView(rep *core.Report) *reportView {
	stats := rep.Stats

	view := &reportView{
		Title:           r.title,
		RunID:           rep.RunID,
		GeneratedAt:     rep.GeneratedAt.UTC().Format(time.RFC3339),
		Narrative:       rep.Narrative,
		TotalTargets:    stats.TotalTargets,
		SentCount:       stats.SentCount,
		OpenCount:       stats.OpenCount,
		ClickCount:      stats.ClickCount,
		SubmitCount:     stats.SubmitCount,
		OpenedOnly:      stats.OpenedOnly,
		ClickedOnly:     stats.ClickedOnly,
		SubmittedCreds:  stats.SubmittedCreds,
		TimezoneOptions: timezoneOptions,
		FieldNames:      stats.FieldNames,
	}

	for _, bucket := range stats.Timeline {
		view.TimelineTimes = append(view.TimelineTimes, bucket.Hour.UTC().Format(time.RFC3339))
		view.TimelineCounts = append(view.TimelineCounts, bucket.Count)
	}

	for _, ua := range stats.UserAgents {
		view.UALabels = append(view.UALabels, ua.UserAgent)
		view.UACounts = append(view.UACounts, ua.Count)
	}

	for _, cred := range stats.Credentials {
		cv := credView{
			Time:     cred.Timestamp.UTC().Format(time.RFC3339),
			Email:    cred.Recipient,
			IP:       orNA(cred.IP),
			Location: cred.Geo.Location(),
			ISP:      cred.Geo.Provider(),
		}
		for _, name := range stats.FieldNames {
			if value, ok := cred.Fields[name]; ok {
				cv.Values = append(cv.Values, value)
			} else {
				cv.Values = append(cv.Values, "N/A")
			}
		}
		view.Credentials = append(view.Credentials, cv)
	}

	for _, user := range rep.Users {
		uv := userView{
			Email:  user.Recipient,
			Status: user.Status.String(),
		}
		for _, ev := range user.Events {
			uv.Events = append(uv.Events, eventView{
				Time:      ev.Timestamp.UTC().Format(time.RFC3339),
				Event:     ev.Type.String(),
				IP:        orNA(ev.IP),
				Location:  ev.Geo.Location(),
				ISP:       ev.Geo.Provider(),
				UserAgent: orNA(ev.UserAgent),
			})
		}
		view.Users = append(view.Users, uv)
	}

	return view
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
