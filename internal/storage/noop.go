package storage

import (
	"context"

	"github.com/AyushSagar16/stash/internal/types"
)

// noopStorage is the degraded-mode store used when the real store fails
// to open. Reads return empty results and writes are accepted and
// dropped, keeping the rest of the app available with local, low-stakes
// data rather than crashing.
type noopStorage struct{}

// NewNoop returns a store that remembers nothing.
func NewNoop() Storage {
	return noopStorage{}
}

func (noopStorage) AddTask(ctx context.Context, task *types.Task) error        { return nil }
func (noopStorage) FetchActive(ctx context.Context) ([]*types.Task, error)     { return nil, nil }
func (noopStorage) FetchCompleted(ctx context.Context) ([]*types.Task, error)  { return nil, nil }
func (noopStorage) FetchAll(ctx context.Context) ([]*types.Task, error)        { return nil, nil }
func (noopStorage) CompleteTask(ctx context.Context, id string) error          { return nil }
func (noopStorage) UpdateTier(ctx context.Context, id string, tier types.Tier) error {
	return nil
}
func (noopStorage) ClearCompleted(ctx context.Context) (int, error) { return 0, nil }
func (noopStorage) ClearAll(ctx context.Context) (int, error)       { return 0, nil }
func (noopStorage) CountActive(ctx context.Context, tier types.Tier) (int, error) {
	return 0, nil
}
func (noopStorage) AddEvent(ctx context.Context, ev *types.TaskEvent) error { return nil }
func (noopStorage) GetEvents(ctx context.Context, limit int) ([]*types.TaskEvent, error) {
	return nil, nil
}
func (noopStorage) Close() error { return nil }
