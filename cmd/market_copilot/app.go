package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/config"
	"github.com/jonathan/market-copilot/internal/fetch"
	"github.com/jonathan/market-copilot/internal/ingest"
	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/llm"
	"github.com/jonathan/market-copilot/internal/logging"
	"github.com/jonathan/market-copilot/internal/metrics"
	"github.com/jonathan/market-copilot/internal/scrape/events"
	"github.com/jonathan/market-copilot/internal/scrape/linkedin"
	"github.com/jonathan/market-copilot/internal/snapshot"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *snapshot.Store
	client  llm.Client
}

// loadApp reads configuration and builds the logger. The store and model
// client are opened on demand.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.New(cfg.LogLevel, devLogs)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, metrics: metrics.New()}, nil
}

func (a *app) openStore(ctx context.Context) (*snapshot.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := snapshot.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) fetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if a.cfg.HTTP.Timeout > 0 {
		opts.Timeout = a.cfg.HTTP.Timeout
	}
	if a.cfg.HTTP.UserAgent != "" {
		opts.UserAgent = a.cfg.HTTP.UserAgent
	}
	if a.cfg.HTTP.AcceptLanguage != "" {
		opts.Headers = map[string]string{"Accept-Language": a.cfg.HTTP.AcceptLanguage}
	}
	opts.Limiter = fetch.NewHostLimiter(a.cfg.HTTP.RequestsPerSecond, 1)
	return opts
}

func (a *app) jobScraper() *linkedin.Scraper {
	li := a.cfg.LinkedIn
	return linkedin.New(linkedin.Options{
		Keywords:         li.Keywords,
		ExperienceLevels: li.ExperienceLevels,
		GeoID:            li.GeoID,
		TimePosted:       li.TimePosted,
		MaxPages:         li.MaxPages,
		UseBrowser:       li.UseBrowser,
		Fetch:            a.fetchOptions(),
	}, a.logger.Named("linkedin"))
}

func (a *app) eventProviders() []events.Provider {
	return events.FromConfig(a.cfg.Events, a.fetchOptions())
}

func (a *app) runner(ctx context.Context) (*ingest.Runner, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.NewRunner(store, a.jobScraper(), a.eventProviders(), a.logger.Named("ingest"),
		ingest.WithMetrics(a.metrics)), nil
}

// engine builds the insight engine. Without Gemini credentials the engine is
// still returned; questions then fail with a model invocation error.
func (a *app) engine(ctx context.Context) (*insights.Engine, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	if a.client == nil && a.cfg.Gemini.HasCredentials() {
		client, err := llm.NewClient(ctx, llm.ConfigFrom(a.cfg.Gemini))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.client = client
	}
	if a.client == nil {
		a.logger.Warn("no Gemini credentials configured; questions will fail until one is set")
	}

	return insights.NewEngine(insights.NewAssembler(store), a.client,
		insights.WithLogger(a.logger.Named("insights")),
		insights.WithMetrics(a.metrics)), nil
}

func (a *app) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.logger.Warn("closing LLM client", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing snapshot store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
