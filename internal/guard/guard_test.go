package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/models"
)

type fakeStatusStorage struct {
	states  map[string]*models.DedupState
	readErr error
	saveErr error
	saves   int
}

func newFakeStatusStorage() *fakeStatusStorage {
	return &fakeStatusStorage{states: map[string]*models.DedupState{}}
}

func (f *fakeStatusStorage) GetDedupState(_ context.Context, kind string) (*models.DedupState, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.states[kind], nil
}

func (f *fakeStatusStorage) SaveDedupState(_ context.Context, state *models.DedupState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.states[state.Kind] = state
	return nil
}

func (f *fakeStatusStorage) SaveHealth(_ context.Context, _ *models.HealthStatus) error { return nil }

func (f *fakeStatusStorage) GetHealth(_ context.Context) (*models.HealthStatus, error) {
	return nil, nil
}

func newTestGuard(storage *fakeStatusStorage, now time.Time) *Guard {
	g := NewGuard(storage, common.GetLogger())
	g.now = func() time.Time { return now }
	return g
}

func TestCanSendNeverSent(t *testing.T) {
	g := newTestGuard(newFakeStatusStorage(), time.Now())

	ok, remaining := g.CanSend(context.Background(), models.KindDailySummary, time.Hour)

	assert.True(t, ok)
	assert.Nil(t, remaining)
}

func TestCanSendInCooldown(t *testing.T) {
	now := time.Now()
	storage := newFakeStatusStorage()
	storage.states[models.KindDailySummary] = &models.DedupState{
		Kind:     models.KindDailySummary,
		LastSent: now.Add(-30 * time.Minute),
	}
	g := newTestGuard(storage, now)

	ok, remaining := g.CanSend(context.Background(), models.KindDailySummary, time.Hour)

	assert.False(t, ok)
	require.NotNil(t, remaining)
	assert.Equal(t, 30, *remaining)
}

func TestCanSendCooldownElapsed(t *testing.T) {
	now := time.Now()
	storage := newFakeStatusStorage()
	storage.states[models.KindDailySummary] = &models.DedupState{
		Kind:     models.KindDailySummary,
		LastSent: now.Add(-90 * time.Minute),
	}
	g := newTestGuard(storage, now)

	ok, remaining := g.CanSend(context.Background(), models.KindDailySummary, time.Hour)

	assert.True(t, ok)
	assert.Nil(t, remaining)
}

func TestCanSendReadFailureFailsOpen(t *testing.T) {
	storage := newFakeStatusStorage()
	storage.readErr = errors.New("store offline")
	g := newTestGuard(storage, time.Now())

	ok, remaining := g.CanSend(context.Background(), models.KindMonthlyUpdate, 24*time.Hour)

	assert.True(t, ok)
	assert.Nil(t, remaining)
}

func TestRecordSend(t *testing.T) {
	now := time.Now()
	storage := newFakeStatusStorage()
	g := newTestGuard(storage, now)

	err := g.RecordSend(context.Background(), models.KindDailySummary, map[string]string{"alerts": "3"})

	require.NoError(t, err)
	assert.Equal(t, 1, storage.saves)
	state := storage.states[models.KindDailySummary]
	require.NotNil(t, state)
	assert.Equal(t, "3", state.Meta["alerts"])

	// The fresh record arms the cooldown.
	ok, remaining := g.CanSend(context.Background(), models.KindDailySummary, time.Hour)
	assert.False(t, ok)
	require.NotNil(t, remaining)
	assert.Equal(t, 60, *remaining)
}

func TestRecordSendWriteFailureSurfaces(t *testing.T) {
	storage := newFakeStatusStorage()
	storage.saveErr = errors.New("disk full")
	g := newTestGuard(storage, time.Now())

	err := g.RecordSend(context.Background(), models.KindDailySummary, nil)
	assert.Error(t, err)
}
