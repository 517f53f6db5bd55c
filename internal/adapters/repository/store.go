// Package repository persists the arena collection.
//
// Every backend stores the whole collection: Save replaces what was stored,
// Load returns it in the order it was saved. An empty store loads as an empty
// collection, not an error.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/domain/model"
)

// Store loads and saves the full arena collection.
type Store interface {
	Load(ctx context.Context) (model.Collection, error)
	Save(ctx context.Context, c model.Collection) error
	Close() error
}

// Open creates the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverFile:
		return NewFileStore(cfg.StorePath, opts...)
	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.StorePath)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}
}
