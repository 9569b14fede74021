package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// healthKey is the fixed key of the single health document.
const healthKey = "health"

// StatusStorage implements the system-status collection on Badger: one
// dedup document per notification kind plus the health document.
type StatusStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewStatusStorage creates a new StatusStorage instance
func NewStatusStorage(db *BadgerDB, logger arbor.ILogger) interfaces.StatusStorage {
	return &StatusStorage{
		db:     db,
		logger: logger,
	}
}

// GetDedupState returns the dedup document for a kind, or (nil, nil) when
// the kind has never been sent.
func (s *StatusStorage) GetDedupState(ctx context.Context, kind string) (*models.DedupState, error) {
	var state models.DedupState
	if err := s.db.Store().Get(kind, &state); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dedup state for %s: %w", kind, err)
	}
	return &state, nil
}

// SaveDedupState upserts the dedup document for a kind.
func (s *StatusStorage) SaveDedupState(ctx context.Context, state *models.DedupState) error {
	if state.Kind == "" {
		return fmt.Errorf("dedup kind is required")
	}

	if err := s.db.Store().Upsert(state.Kind, state); err != nil {
		return fmt.Errorf("failed to save dedup state for %s: %w", state.Kind, err)
	}

	s.logger.Debug().
		Str("kind", state.Kind).
		Str("last_sent", state.LastSent.Format(time.RFC3339)).
		Msg("Dedup state saved")
	return nil
}

// SaveHealth upserts the health-check document.
func (s *StatusStorage) SaveHealth(ctx context.Context, health *models.HealthStatus) error {
	if err := s.db.Store().Upsert(healthKey, health); err != nil {
		return fmt.Errorf("failed to save health status: %w", err)
	}
	return nil
}

// GetHealth returns the last health-check document, or (nil, nil) when
// none has been written.
func (s *StatusStorage) GetHealth(ctx context.Context) (*models.HealthStatus, error) {
	var health models.HealthStatus
	if err := s.db.Store().Get(healthKey, &health); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get health status: %w", err)
	}
	return &health, nil
}
