package backend

import (
	"context"
	"fmt"

	"bookkeeping/internal/log"
	"bookkeeping/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrDefault(logger).WithComponent(log.ComponentStorage),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		s, err := storage.NewSQLiteStorage(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite storage: %w", err)
		}
		f.logger.DebugContext(ctx, "Initialized SQLite session storage", "db_path", config.SQLiteDBPath)
		return &BackendResult{Storage: s, Cleanup: s.Close}, nil
	case MemoryBackend:
		f.logger.DebugContext(ctx, "Initialized memory session storage")
		s := storage.NewMemoryStorage()
		return &BackendResult{Storage: s, Cleanup: s.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
