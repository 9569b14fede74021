package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// TargetStorage implements the portfolio-targets collection on Badger.
type TargetStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTargetStorage creates a new TargetStorage instance
func NewTargetStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TargetStorage {
	return &TargetStorage{
		db:     db,
		logger: logger,
	}
}

// SaveTarget upserts the ticker's target document, replacing any prior one.
func (s *TargetStorage) SaveTarget(ctx context.Context, target *models.TargetRecord) error {
	if target.Ticker == "" {
		return fmt.Errorf("target ticker is required")
	}

	if err := s.db.Store().Upsert(target.Ticker, target); err != nil {
		return fmt.Errorf("failed to save target for %s: %w", target.Ticker, err)
	}

	s.logger.Debug().
		Str("ticker", target.Ticker).
		Float64("buy_target", target.BuyTarget).
		Float64("sell_target", target.SellTarget).
		Msg("Target record saved")
	return nil
}

// GetTarget returns the ticker's target document, or (nil, nil) when no
// document exists. Callers fall back to the hardcoded portfolio targets.
func (s *TargetStorage) GetTarget(ctx context.Context, ticker string) (*models.TargetRecord, error) {
	var target models.TargetRecord
	if err := s.db.Store().Get(ticker, &target); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get target for %s: %w", ticker, err)
	}
	return &target, nil
}

// ListTargets returns every stored target document.
func (s *TargetStorage) ListTargets(ctx context.Context) ([]*models.TargetRecord, error) {
	var targets []models.TargetRecord
	if err := s.db.Store().Find(&targets, badgerhold.Where("Ticker").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	result := make([]*models.TargetRecord, len(targets))
	for i := range targets {
		result[i] = &targets[i]
	}
	return result, nil
}

// Count returns the number of stored target documents.
func (s *TargetStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.TargetRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count targets: %w", err)
	}
	return int(count), nil
}
