package models

import "time"

// Notification kinds tracked by the dedup guard.
const (
	KindDailySummary  = "daily_summary"
	KindMonthlyUpdate = "monthly_update"
)

// DedupState records the last successful send for one notification kind.
// Read before every send attempt; written only after a successful,
// non-dry-run send.
type DedupState struct {
	Kind     string            `json:"kind" badgerhold:"key"`
	LastSent time.Time         `json:"last_sent"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// HealthStatus is the health-check document written to the status store.
type HealthStatus struct {
	CheckedAt time.Time `json:"checked_at"`
	Version   string    `json:"version"`
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message,omitempty"`
}
