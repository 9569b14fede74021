// Package jobs holds the two triggerable workflows, daily monitor and
// monthly target update, plus the health check. Every invocation returns a
// structured result; partial failure is the normal case.
package jobs

import (
	"context"
	"time"

	"github.com/ternarybob/speculor/internal/marketdata"
	"github.com/ternarybob/speculor/internal/models"
)

// Options carries the operational-testing flags accepted by both jobs.
type Options struct {
	BypassMarketHours bool
	At                time.Time // non-zero simulates the invocation instant
	Force             bool      // bypass the dedup guard state check
	CooldownOverride  int       // cooldown override in minutes, 0 = configured default
	DryRun            bool      // render but do not send, never record last_sent
}

// PriceSource resolves current prices for a set of tickers.
type PriceSource interface {
	FetchAll(ctx context.Context, tickers []string) map[string]float64
}

// AnalystSource produces one merged analyst record per ticker.
type AnalystSource interface {
	Aggregate(ctx context.Context, ticker string) models.AggregatedAnalystRecord
}

// FundamentalsSource supplies the financial snapshot inputs for target
// generation.
type FundamentalsSource interface {
	GetFundamentals(ctx context.Context, symbol string) (*marketdata.FundamentalsResponse, error)
}

// TargetGenerator turns snapshot plus analyst record into a target record.
type TargetGenerator interface {
	GenerateTarget(ctx context.Context, fin models.FinancialSnapshot, analystData models.AggregatedAnalystRecord) (*models.TargetRecord, error)
}

// AlertEvaluator classifies a price against a stored target.
type AlertEvaluator interface {
	Evaluate(price float64, target models.TargetRecord) *models.Alert
}

// MarketClock reports whether the market is open at an instant.
type MarketClock interface {
	IsOpenAt(at time.Time) (bool, string)
}

// DedupGuard gates notification sends behind a per-kind cooldown.
type DedupGuard interface {
	CanSend(ctx context.Context, kind string, cooldown time.Duration) (bool, *int)
	RecordSend(ctx context.Context, kind string, meta map[string]string) error
}

// Sender delivers one HTML notification to the configured recipient.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody, textBody string) error
	Recipient() string
}
