package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/golfriket-clubs/internal/config"
	"github.com/pfrederiksen/golfriket-clubs/internal/fetch"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
	"github.com/pfrederiksen/golfriket-clubs/internal/scraper"
	"github.com/pfrederiksen/golfriket-clubs/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// flagReport selects the summary format; it is presentation only and not
// part of config
var flagReport string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "golfriket-clubs",
		Short: "Scrape the golfriket.se golf club directory",
		Long: `A CLI tool that scrapes every golf club listed on golfriket.se.
Reads names and coordinates from the listing page, fetches each club's page
for its address and writes the result as CSV (or XLSX/GeoJSON/PostgreSQL).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	f := cmd.Flags()
	f.StringP(config.KeyOutput, "o", storage.DefaultOutput, "Output file (.csv, .xlsx or .geojson)")
	f.String(config.KeyFormat, "", "Output format: csv, xlsx or geojson (default: from file extension)")
	f.String(config.KeyPostgresDSN, "", "Also upsert clubs into PostgreSQL at this DSN")
	f.String(config.KeyBaseURL, scraper.BaseURL, "Base URL prepended to club page paths")
	f.String(config.KeyListingPath, scraper.ListingPath, "Path of the club listing page")
	f.Duration(config.KeyTimeout, fetch.Timeout, "Per-request HTTP timeout (0 disables)")
	f.Int(config.KeyRetries, 0, "Retries per request on network or 5xx errors")
	f.String(config.KeyLogLevel, "info", "Log level: debug, info, warn or error")
	f.String(config.KeyConfigFile, "", "Optional config file (yaml, toml or json)")
	f.BoolP(config.KeyVerbose, "v", false, "Enable verbose logging")
	f.StringVar(&flagReport, "report", "text", "Summary format: text or json")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	report := OutputFormat(strings.ToLower(flagReport))
	if report != FormatText && report != FormatJSON {
		return fmt.Errorf("invalid report format: %s (must be 'text' or 'json')", flagReport)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(cfg, cmd.ErrOrStderr())

	format, err := storage.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// Build sinks before scraping so a bad output setting fails fast
	fileSink, err := storage.NewFileSink(cfg.Output, format)
	if err != nil {
		return fmt.Errorf("initializing output: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := storage.MultiSink{fileSink}
	if cfg.PostgresDSN != "" {
		conn, err := storage.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer conn.Close(context.Background())
		sinks = append(sinks, storage.NewPostgresWriter(conn))
	}

	fetcher := fetch.New(cfg.Timeout, fetch.WithMaxRetries(cfg.Retries))
	sc := scraper.New(fetcher, cfg.BaseURL, cfg.ListingURL())

	start := time.Now()
	clubs, err := sc.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scraping clubs: %w", err)
	}

	if err := sinks.Write(ctx, clubs); err != nil {
		return fmt.Errorf("saving clubs: %w", err)
	}

	logger.Info("Scrape finished", logger.Fields{
		"clubs":          len(clubs),
		"address_failed": logger.GetCounter("clubs.address_failed"),
	})
	logger.Debug("Run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})

	result := NewOutputResult(clubs, sc.ListingURL(), cfg.Output, time.Since(start))
	if err := WriteOutput(cmd.OutOrStdout(), result, report, cfg.Verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// setupLogging installs the default logger. Verbose runs get debug-level,
// human-readable output.
func setupLogging(cfg *config.Config, w io.Writer) {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.Verbose {
		logger.SetDefault(logger.NewConsole(logger.LevelDebug, w))
		return
	}
	logger.SetDefault(logger.New(level, w))
}

// Execute runs the CLI
func Execute() {
	os.Exit(execute(NewRootCmd(), os.Stderr))
}

// execute runs cmd and returns the process exit code. Failures are logged and
// echoed to stderr.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.Execute(); err != nil {
		logger.Error("Command failed", nil, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
