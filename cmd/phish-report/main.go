package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
	"github.com/mikey/phish-report/internal/di"
	"github.com/mikey/phish-report/internal/geo"
)

func main() {
	flags := di.ParseFlags()
	if flags.CSVPath == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <campaign-export.csv>\n", os.Args[0])
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	flags *di.CLIFlags,
	service *core.ReportService,
	narrative core.NarrativeClient,
	cacheRepo geo.CacheRepository,
) error {
	defer logger.Sync()

	summary, err := service.Run(context.Background(), flags.CSVPath)

	// Close any resources that need closing
	if closer, ok := narrative.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close narrative client", zap.Error(cerr))
		}
	}
	cacheRepo.Stop()

	if err != nil {
		return err
	}

	logger.Debug("Run complete",
		zap.Int("rows_total", summary.RowsTotal),
		zap.Int("rows_processed", summary.RowsProcessed),
		zap.Int("skipped_rows", summary.SkippedRows),
		zap.Int("distinct_ips", summary.DistinctIPs),
		zap.Int("failed_lookups", summary.FailedLookups),
		zap.Int("recipients", summary.Recipients),
		zap.String("report", summary.ReportPath))
	return nil
}
