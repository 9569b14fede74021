package models

import "time"

// TargetRecord is the persisted buy/sell target document for one ticker.
// It is created or overwritten only by the monthly generation workflow and
// read (with hardcoded fallback) by the daily alert workflow. No history is
// retained; each write replaces the prior document.
type TargetRecord struct {
	Ticker            string    `json:"ticker" badgerhold:"key"`
	BuyTarget         float64   `json:"buy_target"`
	SellTarget        float64   `json:"sell_target"`
	ConfidenceScore   int       `json:"confidence_score"` // 1..10
	KeyCatalyst       string    `json:"key_catalyst"`
	RiskFactor        string    `json:"risk_factor"`
	AnalystConsensus  *float64  `json:"analyst_consensus"`
	AnalystConfidence int       `json:"analyst_confidence"`
	CurrentPrice      *float64  `json:"current_price"`
	Sector            string    `json:"sector,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
	DataSources       []string  `json:"data_sources"`
	PERatio           *float64  `json:"pe_ratio,omitempty"`
	MarketCap         *float64  `json:"market_cap,omitempty"`
}

// FallbackTarget builds a low-confidence record from a hardcoded portfolio
// entry, used when the store has no document for the ticker or cannot be
// reached.
func FallbackTarget(ticker string, buy, sell float64, reason string) TargetRecord {
	return TargetRecord{
		Ticker:          ticker,
		BuyTarget:       buy,
		SellTarget:      sell,
		ConfidenceScore: 3,
		KeyCatalyst:     "Hardcoded target",
		RiskFactor:      reason,
		DataSources:     []string{},
	}
}
