package analyst

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/collectors"
	"github.com/ternarybob/speculor/internal/models"
)

// GateConfig tunes the quality-sufficiency gate that short-circuits the
// collector chain. The thresholds are latency/cost knobs, not semantic
// guarantees.
type GateConfig struct {
	MinAnalysts int // primary-source analyst coverage that alone suffices
	MinTargets  int // merged target-price sample size that suffices
}

// DefaultGateConfig returns the stock gate thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{MinAnalysts: 5, MinTargets: 3}
}

// Aggregator orchestrates the collector chain and merges observations into
// one consensus record per ticker. Collectors are called in priority order,
// primary first, and skipped once the gate is satisfied.
type Aggregator struct {
	chain  []collectors.Collector
	gate   GateConfig
	logger arbor.ILogger
}

// NewAggregator creates an aggregator over the given collector chain. The
// first collector is treated as the primary structured-data source.
func NewAggregator(chain []collectors.Collector, gate GateConfig, logger arbor.ILogger) *Aggregator {
	return &Aggregator{chain: chain, gate: gate, logger: logger}
}

// Aggregate produces exactly one merged record for a ticker. All-failed
// collection yields a failed record with confidence 0, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, ticker string) models.AggregatedAnalystRecord {
	var (
		usable  []models.PriceTargetObservation
		targets []float64
	)

	for i, collector := range a.chain {
		obs := collector.Collect(ctx, ticker)
		if obs.Quality.Usable() {
			usable = append(usable, obs)
			targets = append(targets, obs.TargetPrices()...)
		}

		if a.sufficient(i == 0, obs, targets) {
			skipped := len(a.chain) - i - 1
			if skipped > 0 {
				a.logger.Debug().
					Str("ticker", ticker).
					Str("source", collector.ID()).
					Int("skipped_sources", skipped).
					Msg("Analyst data sufficient, skipping remaining sources")
			}
			break
		}
	}

	if len(usable) == 0 {
		a.logger.Warn().Str("ticker", ticker).Msg("All analyst sources failed")
		return models.FailedAggregate(ticker)
	}

	return a.merge(ticker, usable, targets)
}

// sufficient implements the quality gate: a high-quality primary
// observation with a mean target and enough analyst coverage suffices on
// its own, as does a merged target sample of gate size.
func (a *Aggregator) sufficient(isPrimary bool, obs models.PriceTargetObservation, targets []float64) bool {
	if isPrimary &&
		obs.Quality == models.QualityHigh &&
		obs.TargetMean != nil &&
		obs.AnalystCount != nil && *obs.AnalystCount >= a.gate.MinAnalysts {
		return true
	}
	return len(targets) >= a.gate.MinTargets
}

func (a *Aggregator) merge(ticker string, usable []models.PriceTargetObservation, targets []float64) models.AggregatedAnalystRecord {
	record := models.AggregatedAnalystRecord{
		Ticker:       ticker,
		RawTargets:   targets,
		AggregatedAt: time.Now().UTC(),
	}

	var (
		recommendations []float64
		maxAnalysts     int
	)
	for _, obs := range usable {
		record.Sources = append(record.Sources, obs.Source)
		record.Ratings.Add(obs.Ratings)
		if obs.RecommendationScore != nil {
			recommendations = append(recommendations, *obs.RecommendationScore)
		}
		if obs.AnalystCount != nil && *obs.AnalystCount > maxAnalysts {
			// Max, not sum: the sources poll overlapping analyst pools.
			maxAnalysts = *obs.AnalystCount
		}
	}

	sample := targets
	if len(sample) > 2 {
		sample = RemoveOutliers(sample)
	}
	if len(sample) > 0 {
		record.ConsensusTarget = models.Float(Round2(Mean(sample)))
		high, low := sample[0], sample[0]
		for _, v := range sample[1:] {
			if v > high {
				high = v
			}
			if v < low {
				low = v
			}
		}
		record.TargetRange = models.TargetRange{High: models.Float(high), Low: models.Float(low)}
	}

	if maxAnalysts > 0 {
		record.AnalystCount = models.Int(maxAnalysts)
	}
	if len(recommendations) > 0 {
		record.RecommendationScore = models.Float(Round2(Mean(recommendations)))
	}

	record.ConfidenceLevel = ScoreConfidence(len(record.Sources), sample, maxAnalysts)
	switch {
	case record.ConfidenceLevel >= HighConfidenceThreshold:
		record.Quality = models.QualityHigh
	case record.ConfidenceLevel >= 4:
		record.Quality = models.QualityMedium
	default:
		record.Quality = models.QualityLow
	}

	a.logger.Info().
		Str("ticker", ticker).
		Int("sources", len(record.Sources)).
		Int("targets", len(sample)).
		Int("confidence", record.ConfidenceLevel).
		Msg("Analyst data aggregated")
	return record
}
