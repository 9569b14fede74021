// Package app wires configuration, storage, collectors, and jobs into a
// runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/speculor/internal/alerts"
	"github.com/ternarybob/speculor/internal/analyst"
	"github.com/ternarybob/speculor/internal/analyzer"
	"github.com/ternarybob/speculor/internal/collectors"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/guard"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/jobs"
	"github.com/ternarybob/speculor/internal/mailer"
	"github.com/ternarybob/speculor/internal/market"
	"github.com/ternarybob/speculor/internal/marketdata"
	"github.com/ternarybob/speculor/internal/models"
	"github.com/ternarybob/speculor/internal/prices"
	"github.com/ternarybob/speculor/internal/scheduler"
	"github.com/ternarybob/speculor/internal/scrape"
	"github.com/ternarybob/speculor/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	MarketData     *marketdata.Client
	Aggregator     *analyst.Aggregator
	Prices         *prices.Fetcher
	Mailer         *mailer.Service

	Daily   *jobs.DailyJob
	Monthly *jobs.MonthlyJob
	Health  *jobs.HealthJob

	Scheduler *scheduler.Scheduler
}

// New builds the full dependency graph. A missing LLM key only disables the
// monthly job; the daily monitor never depends on a model provider.
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := badger.NewStorageManager(&config.Storage.Badger, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	a.MarketData = marketdata.NewClient(config.EODHD.APIKey,
		marketdata.WithBaseURL(config.EODHD.BaseURL),
		marketdata.WithTimeout(common.Duration(config.EODHD.Timeout)),
		marketdata.WithRateLimit(config.EODHD.RateLimit),
		marketdata.WithLogger(logger),
	)

	a.Aggregator = analyst.NewAggregator(a.buildCollectorChain(), analyst.GateConfig{
		MinAnalysts: config.Collectors.GateMinAnalysts,
		MinTargets:  config.Collectors.GateMinTargets,
	}, logger)

	a.Prices = prices.NewFetcher(a.MarketData, prices.Options{
		Workers:   config.Prices.Workers,
		JitterMin: common.Duration(config.Prices.JitterMin),
		JitterMax: common.Duration(config.Prices.JitterMax),
	}, logger)

	clock, err := market.NewClock()
	if err != nil {
		return nil, fmt.Errorf("failed to load market timezone: %w", err)
	}

	a.Mailer = mailer.NewService(&config.SMTP, logger)
	dedupGuard := guard.NewGuard(storageManager.StatusStorage(), logger)
	evaluator := alerts.NewEvaluator(config.Alerts.WatchBandPct)

	a.Daily = jobs.NewDailyJob(config, storageManager.TargetStorage(), a.Prices, evaluator, clock, dedupGuard, a.Mailer, logger)
	a.Health = jobs.NewHealthJob(storageManager.TargetStorage(), storageManager.StatusStorage(), logger)

	provider, err := analyzer.NewProvider(ctx, config, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("LLM provider unavailable, monthly target updates disabled")
	} else {
		generator := analyzer.NewAnalyzer(provider, logger)
		a.Monthly = jobs.NewMonthlyJob(config, storageManager.TargetStorage(), a.Aggregator, a.Prices,
			a.MarketData, generator, dedupGuard, a.Mailer, logger)
	}

	return a, nil
}

// buildCollectorChain assembles the analyst sources in priority order,
// honoring the scraper feature flags and the optional observation cache.
func (a *App) buildCollectorChain() []collectors.Collector {
	config := a.Config
	chain := []collectors.Collector{
		collectors.NewPrimaryCollector(a.MarketData, a.Logger),
	}

	if config.Collectors.EnableMarketWatch || config.Collectors.EnableYahooWeb {
		fetcher := scrape.NewFetcher(
			common.Duration(config.Collectors.RequestTimeout),
			config.Collectors.UserAgent,
			a.Logger,
		)
		if config.Collectors.EnableMarketWatch {
			chain = append(chain, collectors.NewMarketWatchCollector(fetcher, a.Logger))
		}
		if config.Collectors.EnableYahooWeb {
			chain = append(chain, collectors.NewYahooWebCollector(fetcher, a.Logger))
		}
	}

	if config.Cache.Enabled {
		cache := collectors.NewObservationCache(common.Duration(config.Cache.TTL))
		for i, c := range chain {
			chain[i] = collectors.WithCache(c, cache)
		}
	}
	return chain
}

// RunJob dispatches a single named job invocation.
func (a *App) RunJob(ctx context.Context, name string, opts jobs.Options) (*models.JobResult, error) {
	switch name {
	case "daily":
		return a.Daily.Run(ctx, opts), nil
	case "monthly":
		if a.Monthly == nil {
			return nil, fmt.Errorf("monthly job unavailable: no LLM provider configured")
		}
		return a.Monthly.Run(ctx, opts), nil
	case "health":
		return a.Health.Run(ctx), nil
	default:
		return nil, fmt.Errorf("unknown job %q (expected daily, monthly, or health)", name)
	}
}

// StartScheduler registers the configured schedules and starts cron.
func (a *App) StartScheduler() error {
	s := scheduler.New(a.Logger)

	if err := s.AddJob("daily", a.Config.Scheduler.DailySchedule, func(ctx context.Context) *models.JobResult {
		return a.Daily.Run(ctx, jobs.Options{})
	}); err != nil {
		return err
	}

	if a.Monthly != nil {
		if err := s.AddJob("monthly", a.Config.Scheduler.MonthlySchedule, func(ctx context.Context) *models.JobResult {
			return a.Monthly.Run(ctx, jobs.Options{})
		}); err != nil {
			return err
		}
	}

	s.Start()
	a.Scheduler = s
	return nil
}

// Close releases all resources in reverse dependency order.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
			return err
		}
	}
	return nil
}
