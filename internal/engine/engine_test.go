package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyushSagar16/stash/internal/storage"
	"github.com/AyushSagar16/stash/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	eng := New(store)
	require.NoError(t, eng.Reload(context.Background()))
	return eng
}

func TestAddTaskRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	task, err := eng.AddTask(ctx, "buy milk", types.TierL1)
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)

	tasks := eng.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.Equal(t, types.TierL1, tasks[0].Tier)
	assert.False(t, tasks[0].IsCompleted)
	assert.Equal(t, tasks[0].CreatedAt, tasks[0].TierAssignedAt)
}

func TestAddTaskValidation(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddTask(ctx, "", types.TierL1)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = eng.AddTask(ctx, "   \t ", types.TierL1)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = eng.AddTask(ctx, "ok", types.Tier("l9"))
	assert.Error(t, err)

	// Titles are trimmed at this boundary, not by callers.
	task, err := eng.AddTask(ctx, "  padded  ", types.TierL2)
	require.NoError(t, err)
	assert.Equal(t, "padded", task.Title)
}

func TestCompleteTask(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	task, err := eng.AddTask(ctx, "buy milk", types.TierL1)
	require.NoError(t, err)

	require.NoError(t, eng.CompleteTask(ctx, task.ID))

	assert.Empty(t, eng.Tasks())

	completed := eng.CompletedTasks()
	require.Len(t, completed, 1)
	assert.True(t, completed[0].IsCompleted)
	require.NotNil(t, completed[0].CompletedAt)
	assert.False(t, completed[0].CompletedAt.Before(completed[0].CreatedAt))
}

func TestPromoteAndSnooze(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	task, err := eng.AddTask(ctx, "plan trip", types.TierL3)
	require.NoError(t, err)

	require.NoError(t, eng.PromoteTask(ctx, task.ID))
	assert.Equal(t, types.TierL2, eng.Tasks()[0].Tier)

	require.NoError(t, eng.SnoozeTask(ctx, task.ID))
	assert.Equal(t, types.TierL3, eng.Tasks()[0].Tier)
}

func TestPromoteAtTopIsNoop(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	task, err := eng.AddTask(ctx, "already hot", types.TierL1)
	require.NoError(t, err)

	require.NoError(t, eng.PromoteTask(ctx, task.ID))
	assert.Equal(t, types.TierL1, eng.Tasks()[0].Tier)
}

func TestSnoozeAtBottomIsNoop(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	task, err := eng.AddTask(ctx, "parked", types.TierMem)
	require.NoError(t, err)

	require.NoError(t, eng.SnoozeTask(ctx, task.ID))
	assert.Equal(t, types.TierMem, eng.Tasks()[0].Tier)
}

func TestPromoteMissingTask(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.PromoteTask(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFindActive(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddTask(ctx, "Buy milk", types.TierL2)
	require.NoError(t, err)
	_, err = eng.AddTask(ctx, "Call dentist", types.TierL3)
	require.NoError(t, err)

	task, err := eng.FindActive("MILK")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)

	task, err = eng.FindActive("dent")
	require.NoError(t, err)
	assert.Equal(t, "Call dentist", task.Title)

	_, err = eng.FindActive("laundry")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = eng.FindActive("   ")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFindActivePrefersLongestWaiting(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.AddTask(ctx, "email Alice", types.TierL2)
	require.NoError(t, err)
	_, err = eng.AddTask(ctx, "email Bob", types.TierL2)
	require.NoError(t, err)

	// Snapshot order is tier_assigned_at ascending, so the older task
	// wins an ambiguous match.
	task, err := eng.FindActive("email")
	require.NoError(t, err)
	assert.Equal(t, first.ID, task.ID)
}

func TestActiveTasksFilter(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddTask(ctx, "hot", types.TierL1)
	require.NoError(t, err)
	_, err = eng.AddTask(ctx, "cold", types.TierMem)
	require.NoError(t, err)

	l1 := eng.ActiveTasks(types.TierL1)
	require.Len(t, l1, 1)
	assert.Equal(t, "hot", l1[0].Title)

	assert.Empty(t, eng.ActiveTasks(types.TierL2))
}

func TestHighestActiveTier(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, ok := eng.HighestActiveTier()
	assert.False(t, ok, "empty engine has no highest tier")

	_, err := eng.AddTask(ctx, "cold", types.TierMem)
	require.NoError(t, err)
	tier, ok := eng.HighestActiveTier()
	require.True(t, ok)
	assert.Equal(t, types.TierMem, tier)

	_, err = eng.AddTask(ctx, "warm", types.TierL2)
	require.NoError(t, err)
	tier, ok = eng.HighestActiveTier()
	require.True(t, ok)
	assert.Equal(t, types.TierL2, tier)
}

func TestGroupedCounts(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := eng.AddTask(ctx, "hot task", types.TierL1)
		require.NoError(t, err)
	}
	_, err := eng.AddTask(ctx, "cold task", types.TierMem)
	require.NoError(t, err)

	counts := eng.GroupedCounts()
	assert.Equal(t, 2, counts[types.TierL1])
	assert.Equal(t, 0, counts[types.TierL2])
	assert.Equal(t, 1, counts[types.TierMem])
}

func TestClearCompletedIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	n, err := eng.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	task, err := eng.AddTask(ctx, "done soon", types.TierL1)
	require.NoError(t, err)
	require.NoError(t, eng.CompleteTask(ctx, task.ID))

	n, err = eng.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, eng.CompletedTasks())
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	ch := eng.Subscribe()

	_, err := eng.AddTask(ctx, "notify me", types.TierL2)
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("expected a snapshot-changed signal after AddTask")
	}

	// Signals coalesce: a burst of changes leaves at most one pending.
	_, err = eng.AddTask(ctx, "one", types.TierL2)
	require.NoError(t, err)
	_, err = eng.AddTask(ctx, "two", types.TierL2)
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending signal after burst")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce, got a second pending signal")
	default:
	}
}

func TestSnapshotCopiesAreIsolated(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddTask(ctx, "original", types.TierL1)
	require.NoError(t, err)

	tasks := eng.Tasks()
	tasks[0].Title = "mutated"

	assert.Equal(t, "original", eng.Tasks()[0].Title, "callers must not be able to mutate the snapshot")
}
