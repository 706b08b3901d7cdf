package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/AyushSagar16/stash/internal/types"
)

// schemaVersion is recorded in the meta table when the store is created.
const schemaVersion = "1"

var (
	// ErrTaskExists is returned when inserting a task whose ID already exists.
	ErrTaskExists = errors.New("task already exists")
	// ErrNotFound is returned by lookups that matched no row.
	ErrNotFound = errors.New("task not found")
)

// SQLiteStorage implements the Storage interface using SQLite.
//
// Every operation goes through a single mutex and the connection pool is
// capped at one connection, so store calls never interleave. Callers
// block until their operation completes; a mutation followed by a fetch
// always observes the mutation.
type SQLiteStorage struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL mode for better behavior under the CLI + scheduler pair
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection only. Combined with the store mutex this is the
	// single logical queue all callers share.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		ON CONFLICT (key) DO NOTHING
	`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	return &SQLiteStorage{
		db:  db,
		now: time.Now,
	}, nil
}

// toEpoch converts a timestamp to epoch seconds as stored in REAL columns.
func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// fromEpoch converts epoch seconds back to a timestamp.
func fromEpoch(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// AddTask inserts a new task record. Timestamps left zero by the caller
// default to the store clock.
func (s *SQLiteStorage) AddTask(ctx context.Context, task *types.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.TierAssignedAt.IsZero() {
		task.TierAssignedAt = now
	}

	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, task.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for existing task: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrTaskExists, task.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var completedAt interface{}
	if task.CompletedAt != nil {
		completedAt = toEpoch(*task.CompletedAt)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, tier, is_completed, created_at, tier_assigned_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Tier, boolToInt(task.IsCompleted),
		toEpoch(task.CreatedAt), toEpoch(task.TierAssignedAt), completedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	tier := task.Tier
	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_events (task_id, event_type, new_tier, created_at)
		VALUES (?, ?, ?, ?)
	`, task.ID, types.EventCreated, tier, toEpoch(now))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

const taskColumns = `id, title, tier, is_completed, created_at, tier_assigned_at, completed_at`

// FetchActive returns all incomplete tasks ordered by tier_assigned_at
// ascending (waiting longest first). This ordering is also the
// deterministic iteration order for escalation passes.
func (s *SQLiteStorage) FetchActive(ctx context.Context) ([]*types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE is_completed = 0
		ORDER BY tier_assigned_at ASC, id ASC
	`)
}

// FetchCompleted returns all completed tasks, most recently completed first.
func (s *SQLiteStorage) FetchCompleted(ctx context.Context) ([]*types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE is_completed = 1
		ORDER BY completed_at DESC, id ASC
	`)
}

// FetchAll returns every task, active first, for snapshot export.
func (s *SQLiteStorage) FetchAll(ctx context.Context) ([]*types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		ORDER BY is_completed ASC, tier_assigned_at ASC, id ASC
	`)
}

func (s *SQLiteStorage) fetchTasks(ctx context.Context, query string) ([]*types.Task, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(rows *sql.Rows) (*types.Task, error) {
	var (
		task        types.Task
		isCompleted int
		createdAt   float64
		assignedAt  float64
		completedAt sql.NullFloat64
	)
	err := rows.Scan(&task.ID, &task.Title, &task.Tier, &isCompleted,
		&createdAt, &assignedAt, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task.IsCompleted = isCompleted != 0
	task.CreatedAt = fromEpoch(createdAt)
	task.TierAssignedAt = fromEpoch(assignedAt)
	if completedAt.Valid {
		t := fromEpoch(completedAt.Float64)
		task.CompletedAt = &t
	}
	return &task, nil
}

// CompleteTask marks a task completed and stamps completed_at. Missing
// or already-completed tasks are a no-op, matching the store's
// availability-over-strictness posture.
func (s *SQLiteStorage) CompleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET is_completed = 1, completed_at = ?
		WHERE id = ? AND is_completed = 0
	`, toEpoch(now), id)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		// Absent or already completed; nothing to record.
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_events (task_id, event_type, created_at)
		VALUES (?, ?, ?)
	`, id, types.EventCompleted, toEpoch(now))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// UpdateTier moves a task to a new tier and resets its escalation clock.
// This is the only path that changes tier or tier_assigned_at.
func (s *SQLiteStorage) UpdateTier(ctx context.Context, id string, tier types.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !tier.IsValid() {
		return fmt.Errorf("invalid tier: %s", tier)
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldTier types.Tier
	err = tx.QueryRowContext(ctx, `SELECT tier FROM tasks WHERE id = ?`, id).Scan(&oldTier)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET tier = ?, tier_assigned_at = ?
		WHERE id = ?
	`, tier, toEpoch(now), id)
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_events (task_id, event_type, old_tier, new_tier, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, types.EventTierChanged, oldTier, tier, toEpoch(now))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// AddEvent appends an audit trail entry. Used by the escalation
// scheduler to record automatic tier changes distinctly from manual ones.
func (s *SQLiteStorage) AddEvent(ctx context.Context, ev *types.TaskEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ev.EventType.IsValid() {
		return fmt.Errorf("invalid event type: %s", ev.EventType)
	}
	created := ev.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	var oldTier, newTier interface{}
	if ev.OldTier != nil {
		oldTier = string(*ev.OldTier)
	}
	if ev.NewTier != nil {
		newTier = string(*ev.NewTier)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_events (task_id, event_type, old_tier, new_tier, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.TaskID, ev.EventType, oldTier, newTier, ev.Comment, toEpoch(created))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// ClearCompleted deletes all completed tasks and returns how many went.
func (s *SQLiteStorage) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE is_completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if n > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_events (task_id, event_type, comment, created_at)
			VALUES ('', ?, ?, ?)
		`, types.EventCleared, fmt.Sprintf("cleared %d completed task(s)", n), toEpoch(s.now()))
		if err != nil {
			return 0, fmt.Errorf("failed to record event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ClearAll deletes every task and the audit trail. Destructive and
// irreversible.
func (s *SQLiteStorage) ClearAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_events`); err != nil {
		return 0, fmt.Errorf("failed to clear task events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountActive counts incomplete tasks in a tier. This is the admission
// control input for escalation capacity checks.
func (s *SQLiteStorage) CountActive(ctx context.Context, tier types.Tier) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks WHERE is_completed = 0 AND tier = ?
	`, tier).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active tasks: %w", err)
	}
	return count, nil
}

// GetEvents returns the most recent audit events, newest first.
func (s *SQLiteStorage) GetEvents(ctx context.Context, limit int) ([]*types.TaskEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, event_type, old_tier, new_tier, comment, created_at
		FROM task_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*types.TaskEvent
	for rows.Next() {
		var (
			ev        types.TaskEvent
			oldTier   sql.NullString
			newTier   sql.NullString
			comment   sql.NullString
			createdAt float64
		)
		err := rows.Scan(&ev.ID, &ev.TaskID, &ev.EventType, &oldTier, &newTier, &comment, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if oldTier.Valid {
			t := types.Tier(oldTier.String)
			ev.OldTier = &t
		}
		if newTier.Valid {
			t := types.Tier(newTier.String)
			ev.NewTier = &t
		}
		if comment.Valid {
			ev.Comment = comment.String
		}
		ev.CreatedAt = fromEpoch(createdAt)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
