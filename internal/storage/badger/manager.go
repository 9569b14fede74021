package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/interfaces"
)

// StorageManager owns the Badger connection and hands out the collection
// implementations.
type StorageManager struct {
	db            *BadgerDB
	targetStorage interfaces.TargetStorage
	statusStorage interfaces.StatusStorage
	logger        arbor.ILogger
}

// NewStorageManager opens the database and wires the collections.
func NewStorageManager(config *common.BadgerConfig, logger arbor.ILogger) (*StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &StorageManager{
		db:            db,
		targetStorage: NewTargetStorage(db, logger),
		statusStorage: NewStatusStorage(db, logger),
		logger:        logger,
	}, nil
}

// TargetStorage returns the portfolio-targets collection.
func (m *StorageManager) TargetStorage() interfaces.TargetStorage {
	return m.targetStorage
}

// StatusStorage returns the system-status collection.
func (m *StorageManager) StatusStorage() interfaces.StatusStorage {
	return m.statusStorage
}

// Close closes the underlying database.
func (m *StorageManager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}
