// Package prices resolves current prices for the portfolio tickers: a
// per-ticker quote pass first, then a bounded worker pool that walks a
// fallback chain for anything the quote pass missed.
package prices

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/marketdata"
)

// QuoteProvider is the slice of the market-data client the fetcher needs.
type QuoteProvider interface {
	GetRealTimeQuote(ctx context.Context, symbol string) (*marketdata.Quote, error)
	GetEOD(ctx context.Context, symbol string, opts ...marketdata.QueryOption) (marketdata.EODResponse, error)
}

// Options tunes the fallback worker pool.
type Options struct {
	Workers   int
	JitterMin time.Duration
	JitterMax time.Duration
}

// DefaultOptions returns the stock pool settings: two workers with a
// 0.5-1.5s pre-call jitter to stay under provider rate limits.
func DefaultOptions() Options {
	return Options{
		Workers:   2,
		JitterMin: 500 * time.Millisecond,
		JitterMax: 1500 * time.Millisecond,
	}
}

// Fetcher resolves current prices for a set of tickers. A ticker that fails
// every fallback simply yields no price; it never fails the batch.
type Fetcher struct {
	provider QuoteProvider
	opts     Options
	logger   arbor.ILogger

	// sleep is swappable so tests do not pay real jitter delays.
	sleep func(time.Duration)
}

// NewFetcher creates a price fetcher over the given provider.
func NewFetcher(provider QuoteProvider, opts Options, logger arbor.ILogger) *Fetcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	return &Fetcher{
		provider: provider,
		opts:     opts,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// FetchAll resolves prices for tickers. The first pass tries the fast quote
// endpoint for each ticker in turn; anything missing afterwards goes through
// the worker-pool fallback chain. The returned map holds only resolved
// tickers.
func (f *Fetcher) FetchAll(ctx context.Context, tickers []string) map[string]float64 {
	resolved := make(map[string]float64, len(tickers))
	var missing []string

	for _, ticker := range tickers {
		quote, err := f.provider.GetRealTimeQuote(ctx, ticker)
		if err != nil || quote == nil || quote.Close <= 0 {
			missing = append(missing, ticker)
			continue
		}
		resolved[ticker] = quote.Close
	}

	if len(missing) == 0 {
		return resolved
	}
	f.logger.Info().
		Int("resolved", len(resolved)).
		Int("missing", len(missing)).
		Msg("Quote pass incomplete, starting fallback workers")

	results := f.fallbackPool(ctx, missing)
	for ticker, price := range results {
		resolved[ticker] = price
	}
	return resolved
}

// fallbackPool fans the missing tickers over a bounded worker pool. Each
// ticker is handled by exactly one worker, so result writes never collide
// on a key.
func (f *Fetcher) fallbackPool(ctx context.Context, tickers []string) map[string]float64 {
	work := make(chan string)
	results := make(map[string]float64, len(tickers))

	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := f.opts.Workers
	if workers > len(tickers) {
		workers = len(tickers)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range work {
				if price, ok := f.fallbackChain(ctx, ticker); ok {
					mu.Lock()
					results[ticker] = price
					mu.Unlock()
				}
			}
		}()
	}

	for _, ticker := range tickers {
		work <- ticker
	}
	close(work)
	wg.Wait()

	return results
}

// fallbackChain retries the quote (accepting the previous close when the
// live price is absent), then falls back to the most recent daily close.
// Jitter precedes every network call.
func (f *Fetcher) fallbackChain(ctx context.Context, ticker string) (float64, bool) {
	f.jitter()
	if quote, err := f.provider.GetRealTimeQuote(ctx, ticker); err == nil && quote != nil {
		if quote.Close > 0 {
			return quote.Close, true
		}
		if quote.PreviousClose > 0 {
			f.logger.Debug().Str("ticker", ticker).Msg("Price resolved from previous close")
			return quote.PreviousClose, true
		}
	}

	f.jitter()
	if eod, err := f.provider.GetEOD(ctx, ticker, marketdata.WithOrder("d")); err == nil && len(eod) > 0 {
		if close := eod[0].Close; close > 0 {
			f.logger.Debug().Str("ticker", ticker).Msg("Price resolved from last daily close")
			return close, true
		}
	}

	f.logger.Warn().Str("ticker", ticker).Msg("Price unresolved after all fallbacks")
	return 0, false
}

func (f *Fetcher) jitter() {
	min, max := f.opts.JitterMin, f.opts.JitterMax
	if max <= min {
		if min > 0 {
			f.sleep(min)
		}
		return
	}
	f.sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}
