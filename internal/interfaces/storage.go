// Package interfaces declares the seams between the jobs and their
// collaborators so tests can substitute doubles.
package interfaces

import (
	"context"

	"github.com/ternarybob/speculor/internal/models"
)

// TargetStorage persists one target document per ticker. Writes replace
// the prior document; no history is kept.
type TargetStorage interface {
	SaveTarget(ctx context.Context, target *models.TargetRecord) error
	GetTarget(ctx context.Context, ticker string) (*models.TargetRecord, error)
	ListTargets(ctx context.Context) ([]*models.TargetRecord, error)
	Count(ctx context.Context) (int, error)
}

// StatusStorage persists the per-kind dedup state and the health document.
type StatusStorage interface {
	GetDedupState(ctx context.Context, kind string) (*models.DedupState, error)
	SaveDedupState(ctx context.Context, state *models.DedupState) error
	SaveHealth(ctx context.Context, health *models.HealthStatus) error
	GetHealth(ctx context.Context) (*models.HealthStatus, error)
}

// StorageManager bundles the document-store collections and owns the
// connection lifecycle.
type StorageManager interface {
	TargetStorage() TargetStorage
	StatusStorage() StatusStorage
	Close() error
}
