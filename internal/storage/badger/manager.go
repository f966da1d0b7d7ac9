package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	memory   interfaces.MemoryStore
	fileMeta interfaces.FileMetadataStore
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		memory:   NewSessionStorage(db, logger),
		fileMeta: NewFileMetadataStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// MemoryStore returns the session memory storage interface
func (m *Manager) MemoryStore() interfaces.MemoryStore {
	return m.memory
}

// FileMetadataStore returns the file metadata storage interface
func (m *Manager) FileMetadataStore() interfaces.FileMetadataStore {
	return m.fileMeta
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
