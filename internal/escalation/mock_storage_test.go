package escalation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AyushSagar16/stash/internal/types"
)

// mockStorage is an in-memory Storage used to drive escalation passes
// without SQLite or wall-clock time. UpdateTier failures can be injected
// per task to exercise best-effort pass semantics.
type mockStorage struct {
	mu          sync.Mutex
	tasks       map[string]*types.Task
	events      []*types.TaskEvent
	failUpdates map[string]error
	now         func() time.Time
}

func newMockStorage(now func() time.Time) *mockStorage {
	return &mockStorage{
		tasks:       make(map[string]*types.Task),
		failUpdates: make(map[string]error),
		now:         now,
	}
}

func (m *mockStorage) put(task *types.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.tasks[task.ID] = &copied
}

func (m *mockStorage) AddTask(ctx context.Context, task *types.Task) error {
	m.put(task)
	return nil
}

func (m *mockStorage) FetchActive(ctx context.Context) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*types.Task
	for _, t := range m.tasks {
		if !t.IsCompleted {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TierAssignedAt.Equal(out[j].TierAssignedAt) {
			return out[i].TierAssignedAt.Before(out[j].TierAssignedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStorage) FetchCompleted(ctx context.Context) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*types.Task
	for _, t := range m.tasks {
		if t.IsCompleted {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockStorage) FetchAll(ctx context.Context) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*types.Task
	for _, t := range m.tasks {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockStorage) CompleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok || t.IsCompleted {
		return nil
	}
	now := m.now()
	t.IsCompleted = true
	t.CompletedAt = &now
	return nil
}

func (m *mockStorage) UpdateTier(ctx context.Context, id string, tier types.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failUpdates[id]; err != nil {
		return err
	}
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}
	t.Tier = tier
	t.TierAssignedAt = m.now()
	return nil
}

func (m *mockStorage) ClearCompleted(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, t := range m.tasks {
		if t.IsCompleted {
			delete(m.tasks, id)
			n++
		}
	}
	return n, nil
}

func (m *mockStorage) ClearAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.tasks)
	m.tasks = make(map[string]*types.Task)
	return n, nil
}

func (m *mockStorage) CountActive(ctx context.Context, tier types.Tier) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.IsCompleted && t.Tier == tier {
			n++
		}
	}
	return n, nil
}

func (m *mockStorage) AddEvent(ctx context.Context, ev *types.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *ev
	m.events = append(m.events, &copied)
	return nil
}

func (m *mockStorage) GetEvents(ctx context.Context, limit int) ([]*types.TaskEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.TaskEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *mockStorage) Close() error { return nil }

func (m *mockStorage) tierOf(id string) types.Tier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id].Tier
}
