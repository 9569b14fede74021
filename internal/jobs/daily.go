package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/analyst"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/mailer"
	"github.com/ternarybob/speculor/internal/models"
)

// DailyJob checks every portfolio ticker against its stored targets and
// mails a summary when alerts trigger.
type DailyJob struct {
	config    *common.Config
	targets   interfaces.TargetStorage
	prices    PriceSource
	evaluator AlertEvaluator
	clock     MarketClock
	guard     DedupGuard
	sender    Sender
	logger    arbor.ILogger
}

// NewDailyJob wires the daily monitor.
func NewDailyJob(
	config *common.Config,
	targets interfaces.TargetStorage,
	prices PriceSource,
	evaluator AlertEvaluator,
	clock MarketClock,
	guard DedupGuard,
	sender Sender,
	logger arbor.ILogger,
) *DailyJob {
	return &DailyJob{
		config:    config,
		targets:   targets,
		prices:    prices,
		evaluator: evaluator,
		clock:     clock,
		guard:     guard,
		sender:    sender,
		logger:    logger,
	}
}

// Run executes one daily monitoring pass. Never panics past this boundary;
// a fatal error becomes an error-status result.
func (j *DailyJob) Run(ctx context.Context, opts Options) (result *models.JobResult) {
	start := time.Now()
	result = &models.JobResult{
		RunID:     common.NewRunID(),
		Job:       "daily",
		Timestamp: start.UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error().Str("run_id", result.RunID).Msgf("Daily job panic: %v", r)
			result.Status = models.JobError
			result.Message = fmt.Sprintf("daily monitor error: %v", r)
		}
		result.Duration = time.Since(start).String()
	}()

	at := opts.At
	if at.IsZero() {
		at = start
	}
	if !opts.BypassMarketHours {
		if open, reason := j.clock.IsOpenAt(at); !open {
			j.logger.Info().Str("reason", reason).Msg("Market closed, skipping daily monitor")
			result.Status = models.JobSkipped
			result.Message = "Portfolio monitoring skipped - " + reason
			return result
		}
	} else {
		j.logger.Info().Msg("Market hours check bypassed")
	}

	tickers := j.config.Portfolio.Tickers()
	targets := j.loadTargets(ctx, tickers)
	priceByTicker := j.prices.FetchAll(ctx, tickers)

	var alerts []models.Alert
	highConfidence := 0
	summaries := make(map[string]models.TargetSummary, len(targets))
	for ticker, target := range targets {
		if target.ConfidenceScore >= analyst.HighConfidenceThreshold {
			highConfidence++
		}
		summaries[ticker] = models.TargetSummary{
			BuyTarget:  target.BuyTarget,
			SellTarget: target.SellTarget,
			Confidence: target.ConfidenceScore,
		}
		price, ok := priceByTicker[ticker]
		if !ok {
			continue
		}
		if alert := j.evaluator.Evaluate(price, target); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	result.Prices = priceByTicker
	result.Alerts = alerts
	result.Targets = summaries
	result.HighConfidenceTargets = highConfidence
	result.PortfolioValue = 0 // no positions tracked

	switch {
	case len(priceByTicker) == 0:
		result.Status = models.JobError
		result.Message = "no prices resolved for any ticker"
	case len(priceByTicker) < len(tickers):
		result.Status = models.JobPartial
		result.Message = fmt.Sprintf("Checked %d of %d stocks, found %d alerts",
			len(priceByTicker), len(tickers), len(alerts))
	default:
		result.Status = models.JobSuccess
		result.Message = fmt.Sprintf("Checked %d stocks, found %d alerts", len(priceByTicker), len(alerts))
	}

	if len(alerts) > 0 || opts.Force {
		j.notify(ctx, result, opts)
	}

	return result
}

// loadTargets reads each ticker's stored target, falling back to the
// hardcoded portfolio entry when the store has none or cannot be read.
func (j *DailyJob) loadTargets(ctx context.Context, tickers []string) map[string]models.TargetRecord {
	fallbacks := j.config.FallbackTargets()
	targets := make(map[string]models.TargetRecord, len(tickers))

	for _, ticker := range tickers {
		stored, err := j.targets.GetTarget(ctx, ticker)
		if err != nil {
			j.logger.Warn().Str("ticker", ticker).Err(err).Msg("Target read failed, using hardcoded fallback")
		}
		if stored != nil {
			targets[ticker] = *stored
			continue
		}
		if fb, ok := fallbacks[ticker]; ok {
			reason := "No stored target"
			if err != nil {
				reason = "Target store unavailable"
			}
			targets[ticker] = models.FallbackTarget(ticker, fb[0], fb[1], reason)
		}
	}
	return targets
}

func (j *DailyJob) notify(ctx context.Context, result *models.JobResult, opts Options) {
	cooldown := j.config.CooldownFor(models.KindDailySummary, opts.CooldownOverride)
	if !opts.Force {
		if ok, remaining := j.guard.CanSend(ctx, models.KindDailySummary, cooldown); !ok {
			result.EmailError = fmt.Sprintf("summary suppressed, cooldown active (%d minutes remaining)", *remaining)
			return
		}
	}

	htmlBody, textBody, err := mailer.RenderDailySummary(result)
	if err != nil {
		result.EmailError = err.Error()
		return
	}

	subject := fmt.Sprintf("Portfolio Alert: %d trading opportunities", len(result.Alerts))
	if len(result.Alerts) == 0 {
		subject = "Portfolio Summary: no alerts"
	}

	if opts.DryRun {
		j.logger.Info().Str("subject", subject).Msg("Dry run, email not sent")
		result.EmailError = "dry run, email not sent"
		return
	}

	if err := j.sender.Send(ctx, subject, htmlBody, textBody); err != nil {
		result.EmailError = err.Error()
		return
	}
	result.EmailSent = true

	if err := j.guard.RecordSend(ctx, models.KindDailySummary, map[string]string{
		"alerts": fmt.Sprintf("%d", len(result.Alerts)),
	}); err != nil {
		j.logger.Warn().Err(err).Msg("Failed to record send, cooldown not armed")
	}
}
