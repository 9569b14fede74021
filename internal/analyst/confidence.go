package analyst

// Confidence-score term caps and thresholds.
const (
	pointsPerSource    = 2
	sourcePointsCap    = 6
	targetPointsCap    = 3
	tightAgreementCV   = 0.10
	wideCoverageCount  = 10
	basicCoverageCount = 5
)

// HighConfidenceThreshold marks the score at which a record is trusted
// enough to be reported as high confidence.
const HighConfidenceThreshold = 7

// ScoreConfidence converts source count, target sample, and analyst
// coverage into a deterministic integer score in [0, 10]. Additive terms
// only: adding a source or a target price never lowers the score.
func ScoreConfidence(sourceCount int, targets []float64, maxAnalystCount int) int {
	score := sourceCount * pointsPerSource
	if score > sourcePointsCap {
		score = sourcePointsCap
	}

	targetPoints := len(targets)
	if targetPoints > targetPointsCap {
		targetPoints = targetPointsCap
	}
	score += targetPoints

	if len(targets) >= 2 {
		if mean := Mean(targets); mean > 0 && Stddev(targets)/mean < tightAgreementCV {
			score++
		}
	}

	switch {
	case maxAnalystCount >= wideCoverageCount:
		score += 2
	case maxAnalystCount >= basicCoverageCount:
		score++
	}

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}
