package collectors

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/models"
	"github.com/ternarybob/speculor/internal/scrape"
)

const marketWatchURLFormat = "https://www.marketwatch.com/investing/stock/%s/analystestimates"

// MarketWatchCollector scrapes the MarketWatch analyst-estimates page for a
// consensus target, analyst count, and rating distribution. Everything it
// extracts is best effort: markup drift degrades quality, never errors.
type MarketWatchCollector struct {
	fetcher PageFetcher
	logger  arbor.ILogger
}

// NewMarketWatchCollector creates the MarketWatch scraper collector.
func NewMarketWatchCollector(fetcher PageFetcher, logger arbor.ILogger) *MarketWatchCollector {
	return &MarketWatchCollector{fetcher: fetcher, logger: logger}
}

// ID returns the source identifier.
func (c *MarketWatchCollector) ID() string { return SourceMarketWatch }

// Collect fetches and scrapes the analyst-estimates page for a ticker.
func (c *MarketWatchCollector) Collect(ctx context.Context, ticker string) models.PriceTargetObservation {
	url := fmt.Sprintf(marketWatchURLFormat, ticker)

	doc, err := c.fetcher.Get(ctx, url)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("MarketWatch page fetch failed")
		return models.FailedObservation(SourceMarketWatch, ticker)
	}

	obs := models.PriceTargetObservation{
		Source:     SourceMarketWatch,
		Ticker:     ticker,
		ObservedAt: time.Now().UTC(),
	}
	obs.TargetMean = scrape.FindConsensusTarget(doc)
	obs.AnalystCount = scrape.FindAnalystCount(doc)
	obs.Ratings = scrape.FindRatingCounts(doc)

	switch {
	case obs.TargetMean != nil && obs.AnalystCount != nil:
		obs.Quality = models.QualityMedium
	case obs.TargetMean != nil || obs.AnalystCount != nil:
		obs.Quality = models.QualityLow
	default:
		c.logger.Debug().Str("ticker", ticker).Msg("MarketWatch page yielded no analyst data")
		return models.FailedObservation(SourceMarketWatch, ticker)
	}

	c.logger.Debug().
		Str("ticker", ticker).
		Str("quality", string(obs.Quality)).
		Msg("MarketWatch analyst data scraped")
	return obs
}
