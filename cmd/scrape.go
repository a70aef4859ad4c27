package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobsweep/jobsweep/internal/api"
	"github.com/jobsweep/jobsweep/internal/config"
	"github.com/jobsweep/jobsweep/internal/fetch"
	"github.com/jobsweep/jobsweep/internal/logging"
	"github.com/jobsweep/jobsweep/internal/scrape"
	"github.com/jobsweep/jobsweep/internal/sink"
)

// newScrapeCmd creates and configures the 'scrape' subcommand. It runs one
// crawl to completion: seed listing pages, follow discovered job links, and
// append merged records to the configured sink.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs a scrape against Freshersworld",
		Long: `Seeds listing pages from the configured search query (or explicit start
URLs), crawls discovered job postings concurrently, and appends extracted
records to the configured sink until the result budget or page ceiling is
reached.`,

		RunE: runScrapeCommand,
	}
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recordSink, err := buildSink(ctx, cfg.Sink, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := recordSink.Close(context.Background()); cerr != nil {
			logger.Warn("close sink failed", zap.Error(cerr))
		}
	}()

	state := scrape.NewCrawlState(cfg.Crawl.ResultsWanted, cfg.Crawl.MaxPages)
	controller := scrape.NewController(state, recordSink, cfg.Crawl.CollectDetails, logger)

	engine, err := fetch.NewEngine(fetch.Config{
		AllowedDomains: cfg.Fetch.AllowedDomains,
		Concurrency:    cfg.Fetch.Concurrency,
		MaxRetries:     cfg.Fetch.MaxRetries,
		RequestTimeout: cfg.RequestTimeout(),
		Delay:          cfg.FetchDelay(),
		Proxies:        cfg.Fetch.Proxies,
	}, logger)
	if err != nil {
		return fmt.Errorf("init fetch engine: %w", err)
	}

	if cfg.Server.Enabled {
		server := api.NewServer(state, logger)
		go func() {
			if serr := server.Start(ctx, cfg.Server.Port); serr != nil {
				logger.Error("status server stopped", zap.Error(serr))
			}
		}()
		logger.Info("status server listening", zap.Int("port", cfg.Server.Port))
	}

	query := scrape.SearchQuery{
		Keyword:       cfg.Search.Keyword,
		Location:      cfg.Search.Location,
		Category:      cfg.Search.Category,
		Experience:    cfg.Search.Experience,
		Qualification: cfg.Search.Qualification,
	}
	seeds := controller.Seeds(query, cfg.Search.StartURLs)
	for _, seed := range seeds {
		logger.Info("seeding listing page", zap.String("url", seed.URL))
	}

	engine.Run(ctx, seeds, controller.HandlePage, controller.HandleFailure)

	snapshot := state.Snapshot()
	logger.Info("scrape finished",
		zap.Int("saved", snapshot.Saved),
		zap.Int("results_wanted", snapshot.ResultsWanted),
		zap.Int("visited_urls", snapshot.VisitedURLs),
	)
	return nil
}

// resolveConfigPath honors --config, falling back to ./jobsweep.yaml when
// present. An empty return means defaults plus environment only.
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat("jobsweep.yaml"); err == nil {
		return "jobsweep.yaml"
	}
	return ""
}

func buildSink(ctx context.Context, cfg config.SinkConfig, logger *zap.Logger) (sink.Sink, error) {
	switch cfg.Kind {
	case "jsonl":
		s, err := sink.NewJSONL(sink.JSONLConfig{Path: cfg.Path}, logger)
		if err != nil {
			return nil, fmt.Errorf("init jsonl sink: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := sink.NewPostgres(ctx, sink.PostgresConfig{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres sink: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported sink kind %q", cfg.Kind)
	}
}
