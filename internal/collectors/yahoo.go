package collectors

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/models"
	"github.com/ternarybob/speculor/internal/scrape"
)

const yahooURLFormat = "https://finance.yahoo.com/quote/%s/analysis"

// YahooWebCollector scrapes the Yahoo Finance analysis page for labeled
// mean/high/low price targets.
type YahooWebCollector struct {
	fetcher PageFetcher
	logger  arbor.ILogger
}

// NewYahooWebCollector creates the Yahoo analysis-page scraper collector.
func NewYahooWebCollector(fetcher PageFetcher, logger arbor.ILogger) *YahooWebCollector {
	return &YahooWebCollector{fetcher: fetcher, logger: logger}
}

// ID returns the source identifier.
func (c *YahooWebCollector) ID() string { return SourceYahooWeb }

// Collect fetches and scrapes the analysis page for a ticker.
func (c *YahooWebCollector) Collect(ctx context.Context, ticker string) models.PriceTargetObservation {
	url := fmt.Sprintf(yahooURLFormat, ticker)

	doc, err := c.fetcher.Get(ctx, url)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("Yahoo analysis page fetch failed")
		return models.FailedObservation(SourceYahooWeb, ticker)
	}

	mean, high, low := scrape.FindLabeledTargets(doc)
	obs := models.PriceTargetObservation{
		Source:     SourceYahooWeb,
		Ticker:     ticker,
		TargetMean: mean,
		TargetHigh: high,
		TargetLow:  low,
		ObservedAt: time.Now().UTC(),
	}
	obs.AnalystCount = scrape.FindAnalystCount(doc)

	// Any scraped target contributes: high/low-only pages still widen the
	// aggregate sample, so they grade medium like a mean-only page.
	if mean == nil && high == nil && low == nil {
		c.logger.Debug().Str("ticker", ticker).Msg("Yahoo analysis page yielded no targets")
		return models.FailedObservation(SourceYahooWeb, ticker)
	}
	obs.Quality = models.QualityMedium

	c.logger.Debug().
		Str("ticker", ticker).
		Str("quality", string(obs.Quality)).
		Msg("Yahoo analyst targets scraped")
	return obs
}
