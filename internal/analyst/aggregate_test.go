package analyst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/speculor/internal/collectors"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/models"
)

type stubCollector struct {
	id          string
	observation models.PriceTargetObservation
	calls       int
}

func (s *stubCollector) ID() string { return s.id }

func (s *stubCollector) Collect(_ context.Context, ticker string) models.PriceTargetObservation {
	s.calls++
	obs := s.observation
	obs.Source = s.id
	obs.Ticker = ticker
	return obs
}

func failedStub(id string) *stubCollector {
	return &stubCollector{id: id, observation: models.PriceTargetObservation{Quality: models.QualityFailed}}
}

func chainOf(stubs ...*stubCollector) []collectors.Collector {
	chain := make([]collectors.Collector, len(stubs))
	for i, s := range stubs {
		chain[i] = s
	}
	return chain
}

func TestAggregatorShortCircuit(t *testing.T) {
	primary := &stubCollector{id: "eodhd", observation: models.PriceTargetObservation{
		TargetMean:   models.Float(185.0),
		AnalystCount: models.Int(12),
		Quality:      models.QualityHigh,
	}}
	secondary := failedStub("marketwatch")
	tertiary := failedStub("yahoo_web")

	agg := NewAggregator(chainOf(primary, secondary, tertiary), DefaultGateConfig(), common.GetLogger())
	record := agg.Aggregate(context.Background(), "AAPL")

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary collector must be skipped")
	assert.Equal(t, 0, tertiary.calls, "tertiary collector must be skipped")
	require.NotNil(t, record.ConsensusTarget)
	assert.InDelta(t, 185.0, *record.ConsensusTarget, 0.001)
	assert.Equal(t, []string{"eodhd"}, record.Sources)
}

func TestAggregatorSampleSizeGate(t *testing.T) {
	primary := &stubCollector{id: "eodhd", observation: models.PriceTargetObservation{
		TargetMean:   models.Float(100.0),
		AnalystCount: models.Int(3),
		Quality:      models.QualityHigh,
	}}
	secondary := &stubCollector{id: "marketwatch", observation: models.PriceTargetObservation{
		TargetMean: models.Float(110.0),
		TargetHigh: models.Float(130.0),
		Quality:    models.QualityMedium,
	}}
	tertiary := failedStub("yahoo_web")

	agg := NewAggregator(chainOf(primary, secondary, tertiary), DefaultGateConfig(), common.GetLogger())
	record := agg.Aggregate(context.Background(), "NVDA")

	// Primary alone (1 target, 3 analysts) is insufficient; after the
	// secondary the sample holds 3 targets and the gate closes.
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 0, tertiary.calls)

	require.NotNil(t, record.ConsensusTarget)
	assert.InDelta(t, (100.0+110.0+130.0)/3, *record.ConsensusTarget, 0.01)
	require.NotNil(t, record.TargetRange.High)
	assert.InDelta(t, 130.0, *record.TargetRange.High, 0.001)
	require.NotNil(t, record.TargetRange.Low)
	assert.InDelta(t, 100.0, *record.TargetRange.Low, 0.001)
}

func TestAggregatorAllSourcesFail(t *testing.T) {
	primary := failedStub("eodhd")
	secondary := failedStub("marketwatch")
	tertiary := failedStub("yahoo_web")

	agg := NewAggregator(chainOf(primary, secondary, tertiary), DefaultGateConfig(), common.GetLogger())
	record := agg.Aggregate(context.Background(), "AAPL")

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 1, tertiary.calls)
	assert.True(t, record.Failed())
	assert.Equal(t, models.QualityFailed, record.Quality)
	assert.Equal(t, 0, record.ConfidenceLevel)
	assert.Nil(t, record.ConsensusTarget)
	assert.Empty(t, record.Sources)
}

func TestAggregatorMerge(t *testing.T) {
	primary := &stubCollector{id: "eodhd", observation: models.PriceTargetObservation{
		TargetMean:          models.Float(100.0),
		AnalystCount:        models.Int(4),
		RecommendationScore: models.Float(2.0),
		Ratings:             models.RatingDistribution{Buy: 3, Hold: 1},
		Quality:             models.QualityHigh,
	}}
	secondary := &stubCollector{id: "marketwatch", observation: models.PriceTargetObservation{
		TargetMean:          models.Float(104.0),
		AnalystCount:        models.Int(9),
		RecommendationScore: models.Float(3.0),
		Ratings:             models.RatingDistribution{Buy: 5, Hold: 3, Sell: 1},
		Quality:             models.QualityMedium,
	}}
	tertiary := &stubCollector{id: "yahoo_web", observation: models.PriceTargetObservation{
		TargetHigh: models.Float(120.0),
		TargetLow:  models.Float(90.0),
		Quality:    models.QualityMedium,
	}}

	gate := GateConfig{MinAnalysts: 20, MinTargets: 10} // force full chain
	agg := NewAggregator(chainOf(primary, secondary, tertiary), gate, common.GetLogger())
	record := agg.Aggregate(context.Background(), "MSFT")

	// Max analyst count, not sum: overlapping analyst pools.
	require.NotNil(t, record.AnalystCount)
	assert.Equal(t, 9, *record.AnalystCount)

	require.NotNil(t, record.RecommendationScore)
	assert.InDelta(t, 2.5, *record.RecommendationScore, 0.001)

	require.NotNil(t, record.ConsensusTarget)
	assert.InDelta(t, (100.0+104.0+120.0+90.0)/4, *record.ConsensusTarget, 0.01)

	assert.Equal(t, models.RatingDistribution{Buy: 8, Hold: 4, Sell: 1}, record.Ratings)
	assert.ElementsMatch(t, []string{"eodhd", "marketwatch", "yahoo_web"}, record.Sources)
	assert.Greater(t, record.ConfidenceLevel, 0)
}
