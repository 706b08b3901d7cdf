// Package export produces the JSON backup snapshot of all tasks.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/natefinch/atomic"

	"github.com/AyushSagar16/stash/internal/storage"
	"github.com/AyushSagar16/stash/internal/types"
)

// Marshal renders tasks as a human-readable JSON array: ISO-8601 dates,
// sorted keys, two-space indentation. Tasks pass through a generic map
// so key order is alphabetical rather than struct order.
func Marshal(tasks []*types.Task) ([]byte, error) {
	objects := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("failed to rebuild task %s: %w", t.ID, err)
		}
		objects = append(objects, obj)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Snapshot serializes every task in the store, active and completed.
func Snapshot(ctx context.Context, store storage.Storage) ([]byte, error) {
	tasks, err := store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks for export: %w", err)
	}
	return Marshal(tasks)
}

// WriteFile writes a snapshot to path atomically, so an interrupted
// export never leaves a truncated backup behind.
func WriteFile(ctx context.Context, store storage.Storage, path string) error {
	data, err := Snapshot(ctx, store)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
