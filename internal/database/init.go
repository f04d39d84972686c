package database

import (
	"context"
	"fmt"
	"io"

	"github.com/yourusername/sports-oracle/internal/config"
)

// Pinger is implemented by every storage handle
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handle is an opened storage backend. Exactly one of Postgres and SQLite is
// set, or neither for the in-memory driver.
type Handle struct {
	Driver   string
	Postgres *DB
	SQLite   *SQLiteDB
}

var _ io.Closer = (*Handle)(nil)

// Initialize opens the configured storage backend and makes sure the schema
// exists
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Handle{Driver: cfg.Driver, Postgres: db}, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: cfg.Driver, SQLite: db}, nil

	case config.DriverMemory:
		return &Handle{Driver: cfg.Driver}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Ping checks the open backend; the in-memory driver is always healthy
func (h *Handle) Ping(ctx context.Context) error {
	switch {
	case h.Postgres != nil:
		return h.Postgres.Ping(ctx)
	case h.SQLite != nil:
		return h.SQLite.Ping(ctx)
	default:
		return nil
	}
}

// Close releases the open backend
func (h *Handle) Close() error {
	switch {
	case h.Postgres != nil:
		return h.Postgres.Close()
	case h.SQLite != nil:
		return h.SQLite.Close()
	default:
		return nil
	}
}
