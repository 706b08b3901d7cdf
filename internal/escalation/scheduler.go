// Package escalation implements the background process that moves
// long-dwelling tasks toward the hot tiers.
//
// A pass is three explicit phases: read one consistent snapshot from
// the store, decide the escalation set purely from that snapshot, then
// commit tier updates through the store and signal the engine to
// refresh. Capacity is gated against the snapshot taken at pass start;
// tasks escalated earlier in the same pass do not count against later
// tasks' target occupancy. That mirrors the promotion model: the hot
// tiers are scarce, and when a target fills up a human triages with
// manual promote/snooze instead of the scheduler flooding it.
package escalation

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AyushSagar16/stash/internal/engine"
	"github.com/AyushSagar16/stash/internal/events"
	"github.com/AyushSagar16/stash/internal/storage"
	"github.com/AyushSagar16/stash/internal/types"
)

// Scheduler runs periodic escalation passes over the active task set.
type Scheduler struct {
	store    storage.Storage
	engine   *engine.Engine
	cfg      Config
	notifier events.Notifier

	// limiter smooths notification delivery so a backlog suddenly
	// becoming eligible does not produce a notification storm.
	// Deliveries beyond the burst are delayed, never dropped: every
	// successful escalation produces exactly one notification.
	limiter *rate.Limiter

	now func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the scheduler's clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithNotifyLimiter overrides the notification rate limiter.
func WithNotifyLimiter(l *rate.Limiter) Option {
	return func(s *Scheduler) { s.limiter = l }
}

// New creates a scheduler. The notifier may be nil, in which case
// escalations are silent.
func New(store storage.Storage, eng *engine.Engine, cfg Config, notifier events.Notifier, opts ...Option) *Scheduler {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}

	s := &Scheduler{
		store:    store,
		engine:   eng,
		cfg:      cfg,
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 5),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the scheduler loop. The first pass fires after
// InitialDelay, subsequent passes every Interval. The channels are
// created fresh on every Start so a stopped scheduler can be restarted.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	if err := s.cfg.Validate(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	go s.loop(ctx, stopCh, doneCh)
	return nil
}

// Stop shuts the scheduler down and waits for the loop to exit. A pass
// already in flight runs to completion; only the timer is canceled.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for scheduler to stop: %w", ctx.Err())
	}
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	initial := time.NewTimer(s.cfg.InitialDelay)
	defer initial.Stop()

	select {
	case <-ctx.Done():
		return
	case <-stopCh:
		return
	case <-initial.C:
	}

	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.RunPass(ctx); err != nil {
		// Log error but continue; the next tick retries.
		fmt.Fprintf(os.Stderr, "escalation pass failed: %v\n", err)
	}
}

// RunPass executes a single escalation pass and returns how many tasks
// escalated. Exported so tests and the CLI can drive passes without
// waiting on the timer.
func (s *Scheduler) RunPass(ctx context.Context) (int, error) {
	if !s.cfg.Enabled {
		return 0, nil
	}

	now := s.now()

	// Phase 1: one consistent snapshot, ordered tier_assigned_at
	// ascending. That ordering is the documented tie-break when more
	// eligible tasks exist than the target tier can admit.
	snapshot, err := s.store.FetchActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch active tasks: %w", err)
	}

	// Occupancy is frozen at pass start. Escalations performed later in
	// this pass do not raise the occupancy seen by other tasks.
	occupancy := make(map[types.Tier]int, 4)
	for _, t := range snapshot {
		occupancy[t.Tier]++
	}

	// Phase 2: decide the escalation set purely from the snapshot.
	var eligible []*types.Task
	for _, t := range snapshot {
		if t.IsCompleted {
			continue
		}
		target, ok := t.Tier.EscalationTarget()
		if !ok {
			continue
		}
		threshold := t.Tier.EscalationThreshold()
		if threshold == 0 {
			continue
		}
		if t.Dwell(now) < threshold {
			continue
		}
		if occupancy[target] >= t.Tier.TargetCapacity() {
			continue
		}
		eligible = append(eligible, t)
	}

	// Phase 3: commit. Each task is best-effort; a store failure on one
	// does not abort the rest of the pass.
	escalated := 0
	for _, t := range eligible {
		target, _ := t.Tier.EscalationTarget()

		if err := s.store.UpdateTier(ctx, t.ID, target); err != nil {
			fmt.Fprintf(os.Stderr, "failed to escalate %q to %s: %v\n",
				t.Title, target.DisplayName(), err)
			continue
		}
		escalated++

		oldTier := t.Tier
		if err := s.store.AddEvent(ctx, &types.TaskEvent{
			TaskID:    t.ID,
			EventType: types.EventEscalated,
			OldTier:   &oldTier,
			NewTier:   &target,
			CreatedAt: now,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to record escalation event for %q: %v\n", t.Title, err)
		}

		s.notify(ctx, events.TaskEscalated{
			TaskTitle: t.Title,
			NewTier:   target,
			At:        now,
		})
	}

	if escalated > 0 {
		if err := s.engine.MarkEscalated(ctx, now); err != nil {
			fmt.Fprintf(os.Stderr, "failed to refresh engine after escalation: %v\n", err)
		}
	}

	return escalated, nil
}

func (s *Scheduler) notify(ctx context.Context, ev events.TaskEscalated) {
	if !s.cfg.Notifications {
		return
	}
	// Waiting rather than dropping: a pass over a large backlog delivers
	// its notifications spread out, but all of them arrive.
	if err := s.limiter.Wait(ctx); err != nil {
		return
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		fmt.Fprintf(os.Stderr, "notifier %s failed: %v\n", s.notifier.Name(), err)
	}
}
