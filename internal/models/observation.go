package models

import "time"

// QualityTier labels the completeness of data a source returned.
type QualityTier string

const (
	QualityHigh   QualityTier = "high"
	QualityMedium QualityTier = "medium"
	QualityLow    QualityTier = "low"
	QualityFailed QualityTier = "failed"
)

// Usable reports whether a tier carries data worth aggregating.
func (q QualityTier) Usable() bool {
	return q == QualityHigh || q == QualityMedium
}

// RatingDistribution holds buy/hold/sell analyst rating counts.
type RatingDistribution struct {
	Buy  int `json:"buy"`
	Hold int `json:"hold"`
	Sell int `json:"sell"`
}

// Total returns the number of rated analysts across all buckets.
func (r RatingDistribution) Total() int {
	return r.Buy + r.Hold + r.Sell
}

// Add merges another distribution into this one.
func (r *RatingDistribution) Add(other RatingDistribution) {
	r.Buy += other.Buy
	r.Hold += other.Hold
	r.Sell += other.Sell
}

// PriceTargetObservation is one source's best-effort report for one ticker.
// Immutable once produced by a collector; any subset of the numeric fields
// may be nil. A failed observation has every numeric field nil.
type PriceTargetObservation struct {
	Source              string             `json:"source"`
	Ticker              string             `json:"ticker"`
	TargetMean          *float64           `json:"target_mean,omitempty"`
	TargetHigh          *float64           `json:"target_high,omitempty"`
	TargetLow           *float64           `json:"target_low,omitempty"`
	AnalystCount        *int               `json:"analyst_count,omitempty"`
	RecommendationScore *float64           `json:"recommendation_score,omitempty"` // 1=strong buy .. 5=strong sell
	Ratings             RatingDistribution `json:"rating_distribution"`
	Quality             QualityTier        `json:"quality"`
	ObservedAt          time.Time          `json:"observed_at"`
}

// TargetPrices returns the positive numeric target prices this observation
// contributes to the merged sample.
func (o PriceTargetObservation) TargetPrices() []float64 {
	var prices []float64
	for _, p := range []*float64{o.TargetMean, o.TargetHigh, o.TargetLow} {
		if p != nil && *p > 0 {
			prices = append(prices, *p)
		}
	}
	return prices
}

// FailedObservation builds the sentinel observation a collector returns when
// it could not extract any numeric field. Collection failure is a value, not
// an error.
func FailedObservation(source, ticker string) PriceTargetObservation {
	return PriceTargetObservation{
		Source:     source,
		Ticker:     ticker,
		Quality:    QualityFailed,
		ObservedAt: time.Now().UTC(),
	}
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
