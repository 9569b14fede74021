package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/mailer"
	"github.com/ternarybob/speculor/internal/models"
)

// costPerTicker is the approximate model cost of one ticker's analysis,
// reported in the job result.
const costPerTicker = 0.50

// MonthlyJob regenerates every portfolio ticker's targets from aggregated
// analyst data via the language model. Not gated on market hours; analyst
// pages and the model are available around the clock.
type MonthlyJob struct {
	config    *common.Config
	targets   interfaces.TargetStorage
	analyst   AnalystSource
	prices    PriceSource
	funds     FundamentalsSource
	generator TargetGenerator
	guard     DedupGuard
	sender    Sender
	logger    arbor.ILogger
}

// NewMonthlyJob wires the monthly target update.
func NewMonthlyJob(
	config *common.Config,
	targets interfaces.TargetStorage,
	analystSource AnalystSource,
	prices PriceSource,
	funds FundamentalsSource,
	generator TargetGenerator,
	guard DedupGuard,
	sender Sender,
	logger arbor.ILogger,
) *MonthlyJob {
	return &MonthlyJob{
		config:    config,
		targets:   targets,
		analyst:   analystSource,
		prices:    prices,
		funds:     funds,
		generator: generator,
		guard:     guard,
		sender:    sender,
		logger:    logger,
	}
}

// Run executes one target-update pass. A ticker that fails any step is
// recorded in Outcomes and skipped; the loop always continues.
func (j *MonthlyJob) Run(ctx context.Context, opts Options) (result *models.JobResult) {
	start := time.Now()
	result = &models.JobResult{
		RunID:     common.NewRunID(),
		Job:       "monthly",
		Timestamp: start.UTC(),
		Outcomes:  make(map[string]string),
		Targets:   make(map[string]models.TargetSummary),
	}
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error().Str("run_id", result.RunID).Msgf("Monthly job panic: %v", r)
			result.Status = models.JobError
			result.Message = fmt.Sprintf("monthly target update error: %v", r)
		}
		result.Duration = time.Since(start).String()
	}()

	tickers := j.config.Portfolio.Tickers()
	priceByTicker := j.prices.FetchAll(ctx, tickers)

	for _, ticker := range tickers {
		outcome := j.updateTicker(ctx, ticker, priceByTicker, result)
		result.Outcomes[ticker] = outcome
		j.logger.Info().Str("ticker", ticker).Str("outcome", outcome).Msg("Ticker processed")
	}

	switch {
	case result.UpdatedStocks == 0:
		result.Status = models.JobError
		result.Message = "no targets updated for any ticker"
	case result.UpdatedStocks < len(tickers):
		result.Status = models.JobPartial
		result.Message = fmt.Sprintf("Updated targets for %d of %d stocks", result.UpdatedStocks, len(tickers))
	default:
		result.Status = models.JobSuccess
		result.Message = fmt.Sprintf("Updated targets for %d stocks", result.UpdatedStocks)
	}

	if result.UpdatedStocks > 0 || opts.Force {
		j.notify(ctx, result, len(tickers), opts)
	}

	return result
}

// updateTicker runs the aggregate -> snapshot -> generate -> persist chain
// for one ticker and returns a human-readable outcome.
func (j *MonthlyJob) updateTicker(ctx context.Context, ticker string, priceByTicker map[string]float64, result *models.JobResult) string {
	analystData := j.analyst.Aggregate(ctx, ticker)
	if analystData.Failed() {
		return "skipped: no analyst data available"
	}

	price, ok := priceByTicker[ticker]
	if !ok {
		return "skipped: no price data available"
	}

	fundamentals, err := j.funds.GetFundamentals(ctx, ticker)
	if err != nil {
		j.logger.Warn().Str("ticker", ticker).Err(err).Msg("Fundamentals fetch failed, using price-only snapshot")
	}
	snapshot := fundamentals.Snapshot(ticker, price)

	target, err := j.generator.GenerateTarget(ctx, snapshot, analystData)
	if err != nil {
		j.logger.Warn().Str("ticker", ticker).Err(err).Msg("Target generation failed")
		return "skipped: analysis failed"
	}

	result.EstimatedCost += costPerTicker

	if err := j.targets.SaveTarget(ctx, target); err != nil {
		j.logger.Error().Str("ticker", ticker).Err(err).Msg("Target save failed")
		return "generated but not persisted"
	}

	result.UpdatedStocks++
	result.Targets[ticker] = models.TargetSummary{
		BuyTarget:  target.BuyTarget,
		SellTarget: target.SellTarget,
		Confidence: target.ConfidenceScore,
	}
	return "updated"
}

func (j *MonthlyJob) notify(ctx context.Context, result *models.JobResult, totalCount int, opts Options) {
	cooldown := j.config.CooldownFor(models.KindMonthlyUpdate, opts.CooldownOverride)
	if !opts.Force {
		if ok, remaining := j.guard.CanSend(ctx, models.KindMonthlyUpdate, cooldown); !ok {
			result.EmailError = fmt.Sprintf("update email suppressed, cooldown active (%d minutes remaining)", *remaining)
			return
		}
	}

	htmlBody, textBody, err := mailer.RenderMonthlyUpdate(result, totalCount)
	if err != nil {
		result.EmailError = err.Error()
		return
	}
	subject := fmt.Sprintf("Monthly Target Update: %d stocks refreshed", result.UpdatedStocks)

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

	if err := j.guard.RecordSend(ctx, models.KindMonthlyUpdate, map[string]string{
		"updated": fmt.Sprintf("%d", result.UpdatedStocks),
	}); err != nil {
		j.logger.Warn().Err(err).Msg("Failed to record send, cooldown not armed")
	}
}
