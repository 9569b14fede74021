package prices

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/marketdata"
)

type fakeProvider struct {
	mu         sync.Mutex
	quotes     map[string]float64
	prevCloses map[string]float64
	eodCloses  map[string]float64
	quoteCalls map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		quotes:     map[string]float64{},
		prevCloses: map[string]float64{},
		eodCloses:  map[string]float64{},
		quoteCalls: map[string]int{},
	}
}

func (p *fakeProvider) GetRealTimeQuote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quoteCalls[symbol]++
	if price, ok := p.quotes[symbol]; ok {
		return &marketdata.Quote{Code: symbol, Close: price, PreviousClose: p.prevCloses[symbol]}, nil
	}
	if prev, ok := p.prevCloses[symbol]; ok {
		return &marketdata.Quote{Code: symbol, PreviousClose: prev}, nil
	}
	return nil, errors.New("quote unavailable")
}

func (p *fakeProvider) GetEOD(_ context.Context, symbol string, _ ...marketdata.QueryOption) (marketdata.EODResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if close, ok := p.eodCloses[symbol]; ok {
		return marketdata.EODResponse{{Close: close}}, nil
	}
	return nil, errors.New("no eod data")
}

func newTestFetcher(provider QuoteProvider) *Fetcher {
	f := NewFetcher(provider, Options{Workers: 2}, common.GetLogger())
	f.sleep = func(time.Duration) {}
	return f
}

func TestFetchAllQuotePass(t *testing.T) {
	provider := newFakeProvider()
	provider.quotes["AAPL"] = 185.50
	provider.quotes["MSFT"] = 410.25

	got := newTestFetcher(provider).FetchAll(context.Background(), []string{"AAPL", "MSFT"})

	assert.Equal(t, map[string]float64{"AAPL": 185.50, "MSFT": 410.25}, got)
	assert.Equal(t, 1, provider.quoteCalls["AAPL"])
	assert.Equal(t, 1, provider.quoteCalls["MSFT"])
}

func TestFetchAllFallbackToPreviousClose(t *testing.T) {
	provider := newFakeProvider()
	provider.quotes["AAPL"] = 185.50
	provider.prevCloses["NVDA"] = 131.00

	got := newTestFetcher(provider).FetchAll(context.Background(), []string{"AAPL", "NVDA"})

	assert.Equal(t, 131.00, got["NVDA"])
	assert.Equal(t, 2, provider.quoteCalls["NVDA"], "quote attempt plus fallback retry")
}

func TestFetchAllFallbackToDailyClose(t *testing.T) {
	provider := newFakeProvider()
	provider.eodCloses["F"] = 11.42

	got := newTestFetcher(provider).FetchAll(context.Background(), []string{"F"})

	assert.Equal(t, 11.42, got["F"])
}

func TestFetchAllUnresolvedTickerOmitted(t *testing.T) {
	provider := newFakeProvider()
	provider.quotes["AAPL"] = 185.50

	got := newTestFetcher(provider).FetchAll(context.Background(), []string{"AAPL", "ZZZZ"})

	assert.Equal(t, 185.50, got["AAPL"])
	_, ok := got["ZZZZ"]
	assert.False(t, ok, "unresolvable ticker must be absent, not zero")
}

func TestFetchAllManyMissingTickers(t *testing.T) {
	provider := newFakeProvider()
	tickers := []string{"A", "B", "C", "D", "E"}
	for _, ticker := range tickers {
		provider.eodCloses[ticker] = 10.0
	}

	got := newTestFetcher(provider).FetchAll(context.Background(), tickers)

	assert.Len(t, got, len(tickers))
	for _, ticker := range tickers {
		assert.Equal(t, 10.0, got[ticker])
	}
}
