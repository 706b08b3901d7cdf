// Package events defines the outbound notifications emitted by the
// escalation scheduler for interested collaborators (menu bar, panels,
// terminal output). Delivery is best-effort: a notifier failure never
// blocks or aborts an escalation pass.
package events

import (
	"context"
	"time"

	"github.com/AyushSagar16/stash/internal/types"
)

// TaskEscalated is emitted once per successful automatic escalation.
type TaskEscalated struct {
	// TaskTitle is the title of the escalated task.
	TaskTitle string
	// NewTier is the tier the task moved into.
	NewTier types.Tier
	// At is when the escalation pass ran.
	At time.Time
}

// Notifier delivers escalation notifications to the user.
type Notifier interface {
	// Notify sends a single escalation notification. Implementations
	// should respect context cancellation and return quickly.
	Notify(ctx context.Context, ev TaskEscalated) error

	// Name returns the notifier type for logging
	Name() string
}

// NopNotifier discards all notifications. Used when notifications are
// disabled and in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, ev TaskEscalated) error { return nil }
func (NopNotifier) Name() string                                      { return "nop" }
