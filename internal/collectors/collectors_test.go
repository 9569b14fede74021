package collectors

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/marketdata"
	"github.com/ternarybob/speculor/internal/models"
)

type fakeFundamentals struct {
	response *marketdata.FundamentalsResponse
	err      error
	calls    int
}

func (f *fakeFundamentals) GetFundamentals(_ context.Context, _ string) (*marketdata.FundamentalsResponse, error) {
	f.calls++
	return f.response, f.err
}

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Get(_ context.Context, _ string) (*goquery.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func TestPrimaryCollector(t *testing.T) {
	logger := common.GetLogger()

	t.Run("full ratings yield high quality", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{
			AnalystRatings: &marketdata.AnalystRatings{
				Rating:      2.1,
				TargetPrice: 185.50,
				StrongBuy:   8,
				Buy:         6,
				Hold:        4,
				Sell:        1,
				StrongSell:  1,
			},
		}}

		obs := NewPrimaryCollector(provider, logger).Collect(context.Background(), "AAPL")

		assert.Equal(t, SourcePrimary, obs.Source)
		assert.Equal(t, models.QualityHigh, obs.Quality)
		require.NotNil(t, obs.TargetMean)
		assert.InDelta(t, 185.50, *obs.TargetMean, 0.001)
		require.NotNil(t, obs.AnalystCount)
		assert.Equal(t, 20, *obs.AnalystCount)
		assert.Equal(t, models.RatingDistribution{Buy: 14, Hold: 4, Sell: 2}, obs.Ratings)
	})

	t.Run("target without counts is medium quality", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{
			AnalystRatings: &marketdata.AnalystRatings{TargetPrice: 90.0},
		}}

		obs := NewPrimaryCollector(provider, logger).Collect(context.Background(), "XYZ")

		assert.Equal(t, models.QualityMedium, obs.Quality)
		assert.Nil(t, obs.AnalystCount)
	})

	t.Run("provider error yields failed observation", func(t *testing.T) {
		provider := &fakeFundamentals{err: errors.New("timeout")}

		obs := NewPrimaryCollector(provider, logger).Collect(context.Background(), "AAPL")

		assert.Equal(t, models.QualityFailed, obs.Quality)
		assert.Nil(t, obs.TargetMean)
		assert.False(t, obs.Quality.Usable())
	})

	t.Run("missing ratings section yields failed observation", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{}}

		obs := NewPrimaryCollector(provider, logger).Collect(context.Background(), "AAPL")

		assert.Equal(t, models.QualityFailed, obs.Quality)
	})
}

func TestMarketWatchCollector(t *testing.T) {
	logger := common.GetLogger()

	t.Run("scrapes target and count", func(t *testing.T) {
		fetcher := &fakeFetcher{html: `<html><body>
			<table><tr><td>Average price target: $142.75</td></tr></table>
			<p>Based on 17 analysts</p>
			<table>
				<tr><td>Buy</td><td>10</td></tr>
				<tr><td>Hold</td><td>5</td></tr>
				<tr><td>Sell</td><td>2</td></tr>
			</table>
		</body></html>`}

		obs := NewMarketWatchCollector(fetcher, logger).Collect(context.Background(), "NVDA")

		assert.Equal(t, models.QualityMedium, obs.Quality)
		require.NotNil(t, obs.TargetMean)
		assert.InDelta(t, 142.75, *obs.TargetMean, 0.001)
		require.NotNil(t, obs.AnalystCount)
		assert.Equal(t, 17, *obs.AnalystCount)
		assert.Equal(t, 17, obs.Ratings.Total())
	})

	t.Run("fetch failure yields failed observation", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("503")}

		obs := NewMarketWatchCollector(fetcher, logger).Collect(context.Background(), "NVDA")

		assert.Equal(t, models.QualityFailed, obs.Quality)
	})

	t.Run("empty page yields failed observation", func(t *testing.T) {
		fetcher := &fakeFetcher{html: `<html><body><div>down for maintenance</div></body></html>`}

		obs := NewMarketWatchCollector(fetcher, logger).Collect(context.Background(), "NVDA")

		assert.Equal(t, models.QualityFailed, obs.Quality)
	})
}

func TestYahooWebCollector(t *testing.T) {
	logger := common.GetLogger()

	t.Run("scrapes labeled targets", func(t *testing.T) {
		fetcher := &fakeFetcher{html: `<html><body><table>
			<tr><td>Mean Target</td><td>190.50</td></tr>
			<tr><td>High Target</td><td>250.00</td></tr>
			<tr><td>Low Target</td><td>120.25</td></tr>
		</table></body></html>`}

		obs := NewYahooWebCollector(fetcher, logger).Collect(context.Background(), "MSFT")

		assert.Equal(t, models.QualityMedium, obs.Quality)
		require.NotNil(t, obs.TargetMean)
		assert.InDelta(t, 190.50, *obs.TargetMean, 0.001)
		assert.ElementsMatch(t, []float64{190.50, 250.00, 120.25}, obs.TargetPrices())
	})

	t.Run("high and low only still contributes", func(t *testing.T) {
		fetcher := &fakeFetcher{html: `<html><body><table>
			<tr><td>High Target</td><td>80.00</td></tr>
			<tr><td>Low Target</td><td>40.00</td></tr>
		</table></body></html>`}

		obs := NewYahooWebCollector(fetcher, logger).Collect(context.Background(), "F")

		assert.Equal(t, models.QualityMedium, obs.Quality)
		assert.True(t, obs.Quality.Usable())
		assert.Nil(t, obs.TargetMean)
		assert.ElementsMatch(t, []float64{80.00, 40.00}, obs.TargetPrices())
	})
}

func TestObservationCache(t *testing.T) {
	t.Run("serves fresh entries without hitting source", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{
			AnalystRatings: &marketdata.AnalystRatings{TargetPrice: 100, Buy: 5},
		}}
		cache := NewObservationCache(time.Hour)
		collector := WithCache(NewPrimaryCollector(provider, common.GetLogger()), cache)

		first := collector.Collect(context.Background(), "AAPL")
		second := collector.Collect(context.Background(), "AAPL")

		assert.Equal(t, 1, provider.calls)
		assert.Equal(t, first, second)
	})

	t.Run("expired entries are re-collected", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{
			AnalystRatings: &marketdata.AnalystRatings{TargetPrice: 100, Buy: 5},
		}}
		cache := NewObservationCache(time.Hour)
		current := time.Now()
		cache.now = func() time.Time { return current }
		collector := WithCache(NewPrimaryCollector(provider, common.GetLogger()), cache)

		collector.Collect(context.Background(), "AAPL")
		current = current.Add(2 * time.Hour)
		collector.Collect(context.Background(), "AAPL")

		assert.Equal(t, 2, provider.calls)
	})

	t.Run("failed observations are cached", func(t *testing.T) {
		provider := &fakeFundamentals{err: errors.New("down")}
		cache := NewObservationCache(time.Hour)
		collector := WithCache(NewPrimaryCollector(provider, common.GetLogger()), cache)

		collector.Collect(context.Background(), "AAPL")
		collector.Collect(context.Background(), "AAPL")

		assert.Equal(t, 1, provider.calls)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("nil cache passes through", func(t *testing.T) {
		provider := &fakeFundamentals{response: &marketdata.FundamentalsResponse{}}
		collector := WithCache(NewPrimaryCollector(provider, common.GetLogger()), nil)

		collector.Collect(context.Background(), "AAPL")
		collector.Collect(context.Background(), "AAPL")

		assert.Equal(t, 2, provider.calls)
	})
}
