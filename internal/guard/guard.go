// Package guard enforces the per-kind notification cooldown. The
// read-then-write is not transactional: two overlapping invocations could
// both observe eligible and both send. Acceptable at cron cadence.
package guard

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/models"
)

// Guard gates repeated notifications of the same kind behind a cooldown.
type Guard struct {
	status interfaces.StatusStorage
	logger arbor.ILogger

	// now is swappable for deterministic cooldown tests.
	now func() time.Time
}

// NewGuard creates a guard over the status store.
func NewGuard(status interfaces.StatusStorage, logger arbor.ILogger) *Guard {
	return &Guard{status: status, logger: logger, now: time.Now}
}

// CanSend reports whether a kind is eligible to send under the given
// cooldown. When in cooldown, the second return holds the whole minutes
// remaining until eligibility. A store read failure fails open: better a
// duplicate email than a silently suppressed one.
func (g *Guard) CanSend(ctx context.Context, kind string, cooldown time.Duration) (bool, *int) {
	state, err := g.status.GetDedupState(ctx, kind)
	if err != nil {
		g.logger.Warn().Str("kind", kind).Err(err).Msg("Dedup state read failed, allowing send")
		return true, nil
	}
	if state == nil {
		return true, nil
	}

	elapsed := g.now().Sub(state.LastSent)
	if elapsed >= cooldown {
		return true, nil
	}

	remaining := int((cooldown - elapsed).Minutes())
	g.logger.Info().
		Str("kind", kind).
		Int("remaining_minutes", remaining).
		Msg("Notification in cooldown")
	return false, &remaining
}

// RecordSend writes last_sent for a kind after a successful send. Callers
// must not record dry-run sends. A write failure is returned so the caller
// knows the cooldown was not armed.
func (g *Guard) RecordSend(ctx context.Context, kind string, meta map[string]string) error {
	return g.status.SaveDedupState(ctx, &models.DedupState{
		Kind:     kind,
		LastSent: g.now().UTC(),
		Meta:     meta,
	})
}
