package models

import "time"

// JobStatus summarizes a job invocation outcome. Partial success is the
// normal case, not an exception path.
type JobStatus string

const (
	JobSuccess JobStatus = "success"
	JobPartial JobStatus = "partial"
	JobSkipped JobStatus = "skipped"
	JobError   JobStatus = "error"
)

// TargetSummary is the compact per-ticker target view embedded in results.
type TargetSummary struct {
	BuyTarget  float64 `json:"buy_target"`
	SellTarget float64 `json:"sell_target"`
	Confidence int     `json:"confidence"`
}

// JobResult is the structured payload every job invocation returns. Partial
// failures never abort the batch; they are described here instead.
type JobResult struct {
	RunID     string    `json:"run_id"`
	Job       string    `json:"job"`
	Status    JobStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Duration  string    `json:"duration,omitempty"`
	Message   string    `json:"message,omitempty"`

	// Daily monitor fields
	Prices                map[string]float64       `json:"prices,omitempty"`
	Alerts                []Alert                  `json:"alerts,omitempty"`
	PortfolioValue        float64                  `json:"portfolio_value"` // always 0: no positions tracked
	HighConfidenceTargets int                      `json:"high_confidence_targets,omitempty"`
	Targets               map[string]TargetSummary `json:"targets_summary,omitempty"`

	// Monthly update fields
	UpdatedStocks int               `json:"updated_stocks,omitempty"`
	EstimatedCost float64           `json:"estimated_cost,omitempty"`
	Outcomes      map[string]string `json:"ticker_outcomes,omitempty"`

	// Notification outcome
	EmailSent  bool   `json:"email_sent"`
	EmailError string `json:"email_error,omitempty"`
}
