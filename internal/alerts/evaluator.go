// Package alerts classifies live prices against stored buy/sell targets.
// Pure per-ticker classification with no side effects.
package alerts

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/speculor/internal/models"
)

// DefaultWatchBand is the fraction above the buy target that still raises
// a near-miss WATCH alert.
const DefaultWatchBand = 0.05

// Evaluator classifies one ticker's price against its target record.
type Evaluator struct {
	watchBand float64
}

// NewEvaluator creates an evaluator with the given watch band. A band of
// zero or less falls back to the default.
func NewEvaluator(watchBand float64) *Evaluator {
	if watchBand <= 0 {
		watchBand = DefaultWatchBand
	}
	return &Evaluator{watchBand: watchBand}
}

// Evaluate classifies a ticker. Returns nil when no alert applies or the
// price is non-positive (unalertable data). Total for every positive finite
// price; independent across tickers.
func (e *Evaluator) Evaluate(price float64, target models.TargetRecord) *models.Alert {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil
	}

	switch {
	case price <= target.BuyTarget:
		return &models.Alert{
			Type:         models.AlertBuy,
			Ticker:       target.Ticker,
			CurrentPrice: price,
			TargetPrice:  target.BuyTarget,
			Confidence:   target.ConfidenceScore,
			Catalyst:     target.KeyCatalyst,
			Message: fmt.Sprintf("%s at $%.2f, at or below buy target $%.2f %s",
				target.Ticker, price, target.BuyTarget, confidenceStars(target.ConfidenceScore)),
		}

	case price >= target.SellTarget:
		// Gain relative to the buy target, not an actual entry price;
		// the system tracks no positions.
		profit := (price - target.BuyTarget) / target.BuyTarget * 100
		return &models.Alert{
			Type:         models.AlertSell,
			Ticker:       target.Ticker,
			CurrentPrice: price,
			TargetPrice:  target.SellTarget,
			Confidence:   target.ConfidenceScore,
			Catalyst:     target.KeyCatalyst,
			ProfitPct:    models.Float(profit),
			Message: fmt.Sprintf("%s at $%.2f, at or above sell target $%.2f (est. gain %.1f%%) %s",
				target.Ticker, price, target.SellTarget, profit, confidenceStars(target.ConfidenceScore)),
		}

	case price <= target.BuyTarget*(1+e.watchBand):
		distance := (price - target.BuyTarget) / target.BuyTarget * 100
		return &models.Alert{
			Type:         models.AlertWatch,
			Ticker:       target.Ticker,
			CurrentPrice: price,
			TargetPrice:  target.BuyTarget,
			Confidence:   target.ConfidenceScore,
			DistancePct:  models.Float(distance),
			Message: fmt.Sprintf("%s at $%.2f, %.1f%% above buy target $%.2f",
				target.Ticker, price, distance, target.BuyTarget),
		}

	default:
		return nil
	}
}

// EvaluateAll classifies a batch. Tickers missing a price are skipped.
func (e *Evaluator) EvaluateAll(priceByTicker map[string]float64, targets map[string]models.TargetRecord) []models.Alert {
	var alerts []models.Alert
	for ticker, target := range targets {
		price, ok := priceByTicker[ticker]
		if !ok {
			continue
		}
		if alert := e.Evaluate(price, target); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

// confidenceStars renders a 1..10 confidence score as a 1..5 star bar.
func confidenceStars(score int) string {
	stars := (score + 1) / 2
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}
