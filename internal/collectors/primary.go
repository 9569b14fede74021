package collectors

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/models"
)

// PrimaryCollector reads structured analyst ratings from the market-data
// provider. It is the only collector that can yield a high-quality
// observation on its own.
type PrimaryCollector struct {
	provider FundamentalsProvider
	logger   arbor.ILogger
}

// NewPrimaryCollector creates the structured-API collector.
func NewPrimaryCollector(provider FundamentalsProvider, logger arbor.ILogger) *PrimaryCollector {
	return &PrimaryCollector{provider: provider, logger: logger}
}

// ID returns the source identifier.
func (c *PrimaryCollector) ID() string { return SourcePrimary }

// Collect fetches the fundamentals document and maps its analyst section
// onto an observation. Any provider failure yields a failed observation.
func (c *PrimaryCollector) Collect(ctx context.Context, ticker string) models.PriceTargetObservation {
	fundamentals, err := c.provider.GetFundamentals(ctx, ticker)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("Primary analyst data fetch failed")
		return models.FailedObservation(SourcePrimary, ticker)
	}

	ratings := fundamentals.AnalystRatings
	if ratings == nil {
		c.logger.Debug().Str("ticker", ticker).Msg("No analyst ratings section in fundamentals")
		return models.FailedObservation(SourcePrimary, ticker)
	}

	obs := models.PriceTargetObservation{
		Source:     SourcePrimary,
		Ticker:     ticker,
		ObservedAt: time.Now().UTC(),
		Ratings: models.RatingDistribution{
			Buy:  ratings.StrongBuy + ratings.Buy,
			Hold: ratings.Hold,
			Sell: ratings.Sell + ratings.StrongSell,
		},
	}
	if ratings.TargetPrice > 0 {
		obs.TargetMean = models.Float(ratings.TargetPrice)
	}
	if ratings.Rating > 0 {
		obs.RecommendationScore = models.Float(ratings.Rating)
	}
	if count := ratings.AnalystCount(); count > 0 {
		obs.AnalystCount = models.Int(count)
	}

	obs.Quality = classifyPrimary(obs)
	if obs.Quality == models.QualityFailed {
		return models.FailedObservation(SourcePrimary, ticker)
	}

	c.logger.Debug().
		Str("ticker", ticker).
		Str("quality", string(obs.Quality)).
		Msg("Primary analyst data collected")
	return obs
}

// classifyPrimary grades a structured observation: a mean target plus an
// analyst count is high quality, any numeric field alone is medium.
func classifyPrimary(obs models.PriceTargetObservation) models.QualityTier {
	switch {
	case obs.TargetMean != nil && obs.AnalystCount != nil:
		return models.QualityHigh
	case obs.TargetMean != nil || obs.AnalystCount != nil || obs.RecommendationScore != nil:
		return models.QualityMedium
	default:
		return models.QualityFailed
	}
}
