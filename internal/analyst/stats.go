// Package analyst implements the analyst-data aggregation pipeline:
// collector orchestration with a quality-sufficiency gate, outlier
// rejection over the merged target sample, and the additive confidence
// score that gates target generation downstream.
package analyst

import "math"

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stddev returns the population standard deviation of values.
func Stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// RemoveOutliers drops values more than three population standard
// deviations from the mean. Samples of two or fewer pass through
// unchanged, and the filter never returns an empty slice for a non-empty
// input: if everything would be rejected the original sample is kept.
func RemoveOutliers(values []float64) []float64 {
	if len(values) <= 2 {
		return values
	}

	mean := Mean(values)
	stddev := Stddev(values)
	if stddev == 0 {
		return values
	}

	filtered := make([]float64, 0, len(values))
	for _, v := range values {
		if math.Abs(v-mean) <= 3*stddev {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return values
	}
	return filtered
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
