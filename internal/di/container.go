package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/adapters/csvfile"
	"github.com/mikey/phish-report/internal/adapters/ipinfo"
	"github.com/mikey/phish-report/internal/adapters/progress"
	"github.com/mikey/phish-report/internal/config"
	"github.com/mikey/phish-report/internal/core"
	"github.com/mikey/phish-report/internal/factory"
	"github.com/mikey/phish-report/internal/geo"
	"github.com/mikey/phish-report/internal/logging"
	"github.com/mikey/phish-report/internal/report"
	"github.com/mikey/phish-report/internal/utils"
)

// CLIFlags contains all command line flags for the report generator
type CLIFlags struct {
	// Geolocation flags
	Token string

	// Cache flags
	CacheType string

	// Report output flags
	OutDir string
	Title  string

	// Narrative flags
	SummaryProvider string

	// Input flags
	CSVPath    string
	Quiet      bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct.
// The CSV export path is the single positional argument.
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Geolocation flags
	flag.StringVar(&flags.Token, "token", "", "ipinfo.io API token (enables geolocation lookups)")

	// Cache flags
	flag.StringVar(&flags.CacheType, "cache", "", "Geolocation cache type (memory, sqlite, mysql)")

	// Report output flags
	flag.StringVar(&flags.OutDir, "out-dir", "", "Directory to write the HTML report into")
	flag.StringVar(&flags.Title, "title", "", "Report title")

	// Narrative flags
	flag.StringVar(&flags.SummaryProvider, "summary-provider", "", "Analyst narrative provider (none, openai, gemini, bedrock)")

	// Input flags
	flag.BoolVar(&flags.Quiet, "quiet", false, "Suppress progress output")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	flag.Parse()
	flags.CSVPath = flag.Arg(0)
	return flags
}

// BuildContainer creates and configures a dependency injection container
// for the report generator
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		cfg, err := loadConfig(flags)
		if err != nil {
			return nil, err
		}
		applyFlagOverrides(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger. Explicit logging flags override the config file.
	if err := container.Provide(func(flags *CLIFlags, cfg *config.Config) (*zap.Logger, error) {
		if flags.Verbose || flags.JSONLog {
			return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
		}
		return logging.InitLogger(cfg)
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNarrativeFactory); err != nil {
		return nil, err
	}

	// Register geolocation cache
	if err := container.Provide(func(f *factory.CacheFactory) (geo.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register ipinfo client. Without a token lookups are disabled and
	// the resolver degrades to Lookup Failed entries.
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) geo.LookupClient {
		ipCfg := cfg.GetIPInfo()
		if ipCfg.Token == "" {
			return nil
		}
		return ipinfo.NewClient(ipCfg.BaseURL, ipCfg.Token, ipCfg.Timeout, logger)
	}); err != nil {
		return nil, err
	}

	// Register geolocation resolver
	if err := container.Provide(func(
		client geo.LookupClient,
		cache geo.CacheRepository,
		logger *zap.Logger,
	) core.GeoResolver {
		return geo.NewResolver(client, cache, logger)
	}); err != nil {
		return nil, err
	}

	// Register narrative client (nil when provider is none)
	if err := container.Provide(func(f *factory.NarrativeFactory) (core.NarrativeClient, error) {
		return f.CreateNarrativeClient()
	}); err != nil {
		return nil, err
	}

	// Register progress sink
	if err := container.Provide(func(flags *CLIFlags) core.ProgressSink {
		if flags.Quiet {
			return progress.NewSilentSink()
		}
		return progress.NewConsoleSink(os.Stdout)
	}); err != nil {
		return nil, err
	}

	// Register CSV loader
	if err := container.Provide(func(logger *zap.Logger) core.Loader {
		return csvfile.NewLoader(logger)
	}); err != nil {
		return nil, err
	}

	// Register event normalizer
	if err := container.Provide(core.NewNormalizer); err != nil {
		return nil, err
	}

	// Register HTML renderer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.Renderer, error) {
		return report.NewHTMLRenderer(cfg.GetReport(), logger)
	}); err != nil {
		return nil, err
	}

	// Register report service
	if err := container.Provide(core.NewReportService); err != nil {
		return nil, err
	}

	return container, nil
}

// loadConfig loads configuration from the flagged file, or from the
// standard search paths when no file was given.
func loadConfig(flags *CLIFlags) (*config.Config, error) {
	if flags.ConfigFile != "" {
		return config.NewFromFile(flags.ConfigFile)
	}
	return config.New()
}

// applyFlagOverrides lets command line flags win over file and
// environment settings.
func applyFlagOverrides(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	if flags.Token != "" {
		v.Set("ipinfo.token", flags.Token)
	}
	if flags.CacheType != "" {
		v.Set("cache.type", flags.CacheType)
	}
	if flags.OutDir != "" {
		v.Set("report.output_dir", flags.OutDir)
	}
	if flags.Title != "" {
		v.Set("report.title", flags.Title)
	}
	if flags.SummaryProvider != "" {
		v.Set("summary.provider", flags.SummaryProvider)
	}
}
