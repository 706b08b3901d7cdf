package storage

import (
	"context"
	"errors"

	"github.com/AyushSagar16/stash/internal/storage/sqlite"
	"github.com/AyushSagar16/stash/internal/types"
)

// ErrTaskExists is returned when inserting a task whose ID is already
// present. With fresh UUID generation this should never fire, but the
// store enforces it rather than silently overwriting.
var ErrTaskExists = sqlite.ErrTaskExists

// Storage defines the interface for task storage backends.
//
// All operations are serialized against each other: a store call blocks
// its caller until complete, and no two store calls run concurrently.
// This gives read-after-write consistency for the "mutate then reload"
// pattern the engine relies on.
type Storage interface {
	// Tasks
	AddTask(ctx context.Context, task *types.Task) error
	FetchActive(ctx context.Context) ([]*types.Task, error)
	FetchCompleted(ctx context.Context) ([]*types.Task, error)
	FetchAll(ctx context.Context) ([]*types.Task, error)
	CompleteTask(ctx context.Context, id string) error
	UpdateTier(ctx context.Context, id string, tier types.Tier) error
	ClearCompleted(ctx context.Context) (int, error)
	ClearAll(ctx context.Context) (int, error)
	CountActive(ctx context.Context, tier types.Tier) (int, error)

	// Audit trail
	AddEvent(ctx context.Context, ev *types.TaskEvent) error
	GetEvents(ctx context.Context, limit int) ([]*types.TaskEvent, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".stash/stash.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".stash/stash.db",
	}
}

// NewStorage creates a new SQLite storage backend. The store is
// constructed once at startup and handed to the engine and the
// escalation scheduler; nothing else opens the data file.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".stash/stash.db"
	}

	return sqlite.New(cfg.Path)
}

// IsNotFound reports whether err indicates a missing task.
func IsNotFound(err error) bool {
	return errors.Is(err, sqlite.ErrNotFound)
}
