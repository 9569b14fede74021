package jobs

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/interfaces"
	"github.com/ternarybob/speculor/internal/models"
)

// HealthJob verifies the store is reachable and records a health document.
type HealthJob struct {
	targets interfaces.TargetStorage
	status  interfaces.StatusStorage
	logger  arbor.ILogger
}

// NewHealthJob wires the health check.
func NewHealthJob(targets interfaces.TargetStorage, status interfaces.StatusStorage, logger arbor.ILogger) *HealthJob {
	return &HealthJob{targets: targets, status: status, logger: logger}
}

// Run performs one health check.
func (j *HealthJob) Run(ctx context.Context) *models.JobResult {
	start := time.Now()
	result := &models.JobResult{
		RunID:     common.NewRunID(),
		Job:       "health",
		Timestamp: start.UTC(),
	}

	health := &models.HealthStatus{
		CheckedAt: start.UTC(),
		Version:   common.GetVersion(),
		Healthy:   true,
	}

	count, err := j.targets.Count(ctx)
	if err != nil {
		health.Healthy = false
		health.Message = "target store unreachable: " + err.Error()
	}

	if err := j.status.SaveHealth(ctx, health); err != nil {
		health.Healthy = false
		health.Message = "status store write failed: " + err.Error()
	}

	if health.Healthy {
		result.Status = models.JobSuccess
		result.Message = "healthy"
		j.logger.Info().Int("stored_targets", count).Msg("Health check passed")
	} else {
		result.Status = models.JobError
		result.Message = health.Message
		j.logger.Error().Str("message", health.Message).Msg("Health check failed")
	}
	result.Duration = time.Since(start).String()
	return result
}
