package models

import "time"

// TargetRange is the high/low bound of the merged target-price sample.
type TargetRange struct {
	High *float64 `json:"high"`
	Low  *float64 `json:"low"`
}

// AggregatedAnalystRecord is one ticker's merged view across every
// contributing source. Quality is "failed" if and only if no source
// contributed any usable data.
type AggregatedAnalystRecord struct {
	Ticker              string             `json:"ticker"`
	ConsensusTarget     *float64           `json:"consensus_target"`
	TargetRange         TargetRange        `json:"target_range"`
	AnalystCount        *int               `json:"analyst_count"`
	RecommendationScore *float64           `json:"recommendation_score"`
	ConfidenceLevel     int                `json:"confidence_level"` // 0..10
	Sources             []string           `json:"data_sources"`
	Ratings             RatingDistribution `json:"rating_distribution"`
	RawTargets          []float64          `json:"raw_targets,omitempty"`
	Quality             QualityTier        `json:"quality"`
	AggregatedAt        time.Time          `json:"aggregated_at"`
}

// Failed reports whether no source contributed data for the ticker.
// Callers must skip target generation for failed records.
func (r AggregatedAnalystRecord) Failed() bool {
	return r.Quality == QualityFailed
}

// FailedAggregate builds the all-null record returned when every collector
// failed for a ticker.
func FailedAggregate(ticker string) AggregatedAnalystRecord {
	return AggregatedAnalystRecord{
		Ticker:       ticker,
		Sources:      []string{},
		Quality:      QualityFailed,
		AggregatedAt: time.Now().UTC(),
	}
}
