// Package engine holds the authoritative in-memory view of tasks and is
// the mutation façade every collaborator goes through. The engine never
// trusts its own cache after a write: each mutation routes through the
// store and then reloads, relying on the store's serialized queue for
// read-after-write consistency.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AyushSagar16/stash/internal/storage"
	"github.com/AyushSagar16/stash/internal/types"
)

var (
	// ErrEmptyTitle is returned when adding a task with a blank title.
	// The engine is the single validation boundary for titles; callers
	// surface the message, they do not re-validate.
	ErrEmptyTitle = errors.New("task title is empty")

	// ErrTaskNotFound is returned when a lookup matched no active task.
	ErrTaskNotFound = errors.New("task not found")
)

// Engine is the single authoritative in-memory view of tasks.
//
// The snapshots it holds are derived, not owned: the store is the source
// of truth and the engine re-queries it after every mutating call.
type Engine struct {
	store storage.Storage
	now   func() time.Time

	mu             sync.RWMutex
	tasks          []*types.Task
	completed      []*types.Task
	lastEscalation *time.Time

	subMu sync.Mutex
	subs  []chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Tests use this to avoid
// wall-clock waits.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store. Call Reload before first
// use to populate the active snapshot.
func New(store storage.Storage, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload refreshes the active task snapshot from the store.
func (e *Engine) Reload(ctx context.Context) error {
	tasks, err := e.store.FetchActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload active tasks: %w", err)
	}

	e.mu.Lock()
	e.tasks = tasks
	e.mu.Unlock()

	e.notifySubscribers()
	return nil
}

// ReloadCompleted refreshes the completed task snapshot from the store.
func (e *Engine) ReloadCompleted(ctx context.Context) error {
	tasks, err := e.store.FetchCompleted(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload completed tasks: %w", err)
	}

	e.mu.Lock()
	e.completed = tasks
	e.mu.Unlock()

	e.notifySubscribers()
	return nil
}

// AddTask creates a new task in the given tier with fresh timestamps,
// persists it, and refreshes the snapshot.
func (e *Engine) AddTask(ctx context.Context, title string, tier types.Tier) (*types.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}

	now := e.now()
	task := &types.Task{
		ID:             uuid.NewString(),
		Title:          title,
		Tier:           tier,
		CreatedAt:      now,
		TierAssignedAt: now,
	}

	if err := e.store.AddTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	if err := e.Reload(ctx); err != nil {
		return task, err
	}
	return task, nil
}

// CompleteTask marks a task completed and refreshes both snapshots.
// Completed tasks are immutable afterwards except for clearing.
func (e *Engine) CompleteTask(ctx context.Context, id string) error {
	if err := e.store.CompleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if err := e.Reload(ctx); err != nil {
		return err
	}
	return e.ReloadCompleted(ctx)
}

// PromoteTask moves a task one tier toward L1. Promoting a task already
// at L1 is a silent no-op: an expected, reachable state, not an error.
func (e *Engine) PromoteTask(ctx context.Context, id string) error {
	task, err := e.findActiveByID(id)
	if err != nil {
		return err
	}

	target, ok := task.Tier.Promoted()
	if !ok {
		return nil
	}

	if err := e.store.UpdateTier(ctx, id, target); err != nil {
		return fmt.Errorf("failed to promote task: %w", err)
	}
	return e.Reload(ctx)
}

// SnoozeTask moves a task one tier toward MEM. Snoozing a task already
// at MEM is a silent no-op.
func (e *Engine) SnoozeTask(ctx context.Context, id string) error {
	task, err := e.findActiveByID(id)
	if err != nil {
		return err
	}

	target, ok := task.Tier.Demoted()
	if !ok {
		return nil
	}

	if err := e.store.UpdateTier(ctx, id, target); err != nil {
		return fmt.Errorf("failed to snooze task: %w", err)
	}
	return e.Reload(ctx)
}

// ClearCompleted deletes all completed tasks. Idempotent: clearing an
// empty completed set does nothing.
func (e *Engine) ClearCompleted(ctx context.Context) (int, error) {
	n, err := e.store.ClearCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return n, e.ReloadCompleted(ctx)
}

// ClearAllData deletes every task. Destructive and irreversible.
func (e *Engine) ClearAllData(ctx context.Context) (int, error) {
	n, err := e.store.ClearAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear all data: %w", err)
	}
	if err := e.Reload(ctx); err != nil {
		return n, err
	}
	return n, e.ReloadCompleted(ctx)
}

// Tasks returns a copy of the current active snapshot, ordered by
// tier_assigned_at ascending (waiting longest first).
func (e *Engine) Tasks() []*types.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyTasks(e.tasks)
}

// CompletedTasks returns a copy of the completed snapshot, most recently
// completed first. Call ReloadCompleted first; it is loaded on demand.
func (e *Engine) CompletedTasks() []*types.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyTasks(e.completed)
}

// ActiveTasks filters the current snapshot by tier. Pure in-memory
// filter, no store round-trip.
func (e *Engine) ActiveTasks(tier types.Tier) []*types.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []*types.Task
	for _, t := range e.tasks {
		if t.Tier == tier {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out
}

// HighestActiveTier returns the hottest tier containing at least one
// active task, or false if there are none.
func (e *Engine) HighestActiveTier() (types.Tier, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, tier := range types.AllTiers() {
		for _, t := range e.tasks {
			if t.Tier == tier {
				return tier, true
			}
		}
	}
	return "", false
}

// FindActive locates an active task by case-insensitive substring match
// on its title. If several match, the one waiting longest wins.
func (e *Engine) FindActive(match string) (*types.Task, error) {
	needle := strings.ToLower(strings.TrimSpace(match))
	if needle == "" {
		return nil, ErrTaskNotFound
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, t := range e.tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			copied := *t
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: no active task matching %q", ErrTaskNotFound, match)
}

// GroupedCounts returns the number of active tasks per tier, in display
// order.
func (e *Engine) GroupedCounts() map[types.Tier]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[types.Tier]int, 4)
	for _, t := range e.tasks {
		counts[t.Tier]++
	}
	return counts
}

// MarkEscalated records that an escalation pass changed something at the
// given time, refreshes the snapshot, and wakes subscribers. Called by
// the escalation scheduler after a pass that escalated at least one task.
func (e *Engine) MarkEscalated(ctx context.Context, at time.Time) error {
	e.mu.Lock()
	e.lastEscalation = &at
	e.mu.Unlock()

	return e.Reload(ctx)
}

// LastEscalationTime returns when the most recent escalation pass
// changed anything, or nil if none has.
func (e *Engine) LastEscalationTime() *time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.lastEscalation == nil {
		return nil
	}
	t := *e.lastEscalation
	return &t
}

// Subscribe returns a channel that receives a signal whenever the
// engine's snapshot changes. The channel is buffered and coalescing:
// a slow consumer sees at least one signal for any burst of changes.
func (e *Engine) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	e.subMu.Lock()
	e.subs = append(e.subs, ch)
	e.subMu.Unlock()

	return ch
}

func (e *Engine) notifySubscribers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (e *Engine) findActiveByID(id string) (*types.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, t := range e.tasks {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

func copyTasks(tasks []*types.Task) []*types.Task {
	out := make([]*types.Task, len(tasks))
	for i, t := range tasks {
		copied := *t
		out[i] = &copied
	}
	return out
}

// SortForDisplay orders tasks by tier (hottest first), then by how long
// they have been waiting in that tier.
func SortForDisplay(tasks []*types.Task) {
	rank := map[types.Tier]int{}
	for i, tier := range types.AllTiers() {
		rank[tier] = i
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if rank[tasks[i].Tier] != rank[tasks[j].Tier] {
			return rank[tasks[i].Tier] < rank[tasks[j].Tier]
		}
		return tasks[i].TierAssignedAt.Before(tasks[j].TierAssignedAt)
	})
}
