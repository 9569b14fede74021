package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/speculor/internal/models"
)

func testTarget() models.TargetRecord {
	return models.TargetRecord{
		Ticker:          "AAPL",
		BuyTarget:       100,
		SellTarget:      150,
		ConfidenceScore: 8,
		KeyCatalyst:     "Services growth",
	}
}

func TestEvaluate(t *testing.T) {
	evaluator := NewEvaluator(DefaultWatchBand)

	tests := []struct {
		name  string
		price float64
		want  models.AlertType
	}{
		{"at buy target", 100, models.AlertBuy},
		{"below buy target", 87.50, models.AlertBuy},
		{"at sell target", 150, models.AlertSell},
		{"above sell target", 163, models.AlertSell},
		{"within watch band", 104, models.AlertWatch},
		{"at watch band edge", 105, models.AlertWatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := evaluator.Evaluate(tt.price, testTarget())
			require.NotNil(t, alert)
			assert.Equal(t, tt.want, alert.Type)
			assert.Equal(t, tt.price, alert.CurrentPrice)
		})
	}
}

func TestEvaluateNoAlert(t *testing.T) {
	evaluator := NewEvaluator(DefaultWatchBand)

	for _, price := range []float64{110, 120, 149.99} {
		assert.Nil(t, evaluator.Evaluate(price, testTarget()), "price %.2f", price)
	}
}

func TestEvaluateInvalidPrice(t *testing.T) {
	evaluator := NewEvaluator(DefaultWatchBand)

	for _, price := range []float64{0, -5} {
		assert.Nil(t, evaluator.Evaluate(price, testTarget()), "price %.2f", price)
	}
}

func TestEvaluateSellProfit(t *testing.T) {
	alert := NewEvaluator(DefaultWatchBand).Evaluate(150, testTarget())

	require.NotNil(t, alert)
	assert.Equal(t, models.AlertSell, alert.Type)
	require.NotNil(t, alert.ProfitPct)
	assert.InDelta(t, 50.0, *alert.ProfitPct, 0.001)
}

func TestEvaluateWatchDistance(t *testing.T) {
	alert := NewEvaluator(DefaultWatchBand).Evaluate(104, testTarget())

	require.NotNil(t, alert)
	assert.Equal(t, models.AlertWatch, alert.Type)
	require.NotNil(t, alert.DistancePct)
	assert.InDelta(t, 4.0, *alert.DistancePct, 0.001)
}

func TestEvaluateAll(t *testing.T) {
	evaluator := NewEvaluator(DefaultWatchBand)
	targets := map[string]models.TargetRecord{
		"AAPL": testTarget(),
		"MSFT": {Ticker: "MSFT", BuyTarget: 300, SellTarget: 450, ConfidenceScore: 6},
		"NVDA": {Ticker: "NVDA", BuyTarget: 90, SellTarget: 140, ConfidenceScore: 7},
	}
	pricesByTicker := map[string]float64{
		"AAPL": 95,  // BUY
		"MSFT": 400, // no alert
		// NVDA price missing, skipped
	}

	alerts := evaluator.EvaluateAll(pricesByTicker, targets)

	require.Len(t, alerts, 1)
	assert.Equal(t, "AAPL", alerts[0].Ticker)
	assert.Equal(t, models.AlertBuy, alerts[0].Type)
}

func TestConfidenceStars(t *testing.T) {
	assert.Equal(t, "★★★★☆", confidenceStars(8))
	assert.Equal(t, "★★★★★", confidenceStars(10))
	assert.Equal(t, "☆☆☆☆☆", confidenceStars(0))
}
