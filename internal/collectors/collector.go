package collectors

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/speculor/internal/marketdata"
	"github.com/ternarybob/speculor/internal/models"
)

// Source identifiers recorded on every observation.
const (
	SourcePrimary     = "eodhd"
	SourceMarketWatch = "marketwatch"
	SourceYahooWeb    = "yahoo_web"
)

// Collector produces one source's price-target observation for a ticker.
// Implementations never return an error: a source that yields nothing
// produces a failed observation.
type Collector interface {
	ID() string
	Collect(ctx context.Context, ticker string) models.PriceTargetObservation
}

// FundamentalsProvider is the slice of the market-data client the primary
// collector needs.
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, symbol string) (*marketdata.FundamentalsResponse, error)
}

// PageFetcher retrieves and parses an HTML page. Satisfied by scrape.Fetcher.
type PageFetcher interface {
	Get(ctx context.Context, url string) (*goquery.Document, error)
}
