package models

// AlertType classifies a trading opportunity.
type AlertType string

const (
	AlertBuy   AlertType = "BUY"
	AlertSell  AlertType = "SELL"
	AlertWatch AlertType = "WATCH"
)

// Alert is one triggered trading signal for one ticker.
type Alert struct {
	Type         AlertType `json:"type"`
	Ticker       string    `json:"ticker"`
	CurrentPrice float64   `json:"current_price"`
	TargetPrice  float64   `json:"target_price"`
	Confidence   int       `json:"confidence"`
	Catalyst     string    `json:"catalyst,omitempty"`
	ProfitPct    *float64  `json:"profit_pct,omitempty"`   // SELL: estimated gain over the buy target
	DistancePct  *float64  `json:"distance_pct,omitempty"` // WATCH: distance above the buy target
	Message      string    `json:"message"`
}
