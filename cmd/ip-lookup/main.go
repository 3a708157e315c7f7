package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/phish-report/internal/adapters/geocache"
	"github.com/mikey/phish-report/internal/adapters/ipinfo"
	"github.com/mikey/phish-report/internal/core"
	"github.com/mikey/phish-report/internal/geo"
	"github.com/mikey/phish-report/internal/logging"
)

var (
	// Geolocation flags
	ip      = flag.String("ip", "", "IP address to look up (or pass as positional argument)")
	token   = flag.String("token", "", "ipinfo.io API token")
	baseURL = flag.String("base-url", "https://ipinfo.io", "Geolocation service base URL")
	timeout = flag.Duration("timeout", 5*time.Second, "Lookup timeout")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

// statusNames maps resolution outcomes to display strings.
var statusNames = map[core.GeoStatus]string{
	core.GeoUnavailable: "unavailable",
	core.GeoPrivate:     "private",
	core.GeoResolved:    "resolved",
	core.GeoFailed:      "failed",
}

func main() {
	flag.Parse()

	addr := *ip
	if addr == "" {
		addr = flag.Arg(0)
	}
	if addr == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <ip-address>\n", os.Args[0])
		os.Exit(2)
	}

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Assemble a resolver directly, no container needed here
	var client geo.LookupClient
	if *token != "" {
		client = ipinfo.NewClient(*baseURL, *token, *timeout, logger)
	} else {
		logger.Warn("No token given, only private-range detection will work")
	}
	cache := geocache.NewMemoryCache(logger)
	resolver := geo.NewResolver(client, cache, logger)

	startTime := time.Now()
	info := resolver.Resolve(context.Background(), addr)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("IP: %s\n", addr)
	fmt.Printf("Status: %s\n", statusNames[info.Status])
	fmt.Printf("Location: %s\n", info.Location())
	fmt.Printf("ISP: %s\n", info.Provider())
	fmt.Printf("Lookup time: %v\n", duration)

	cache.Stop()
}
