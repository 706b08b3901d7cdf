package types

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a single tracked item. A task lives in exactly one
// tier at a time; TierAssignedAt is the escalation clock and is bumped
// on every tier change, manual or automatic. It is not reset on
// completion, so a completed task still reports its final dwell.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Tier           Tier       `json:"tier"`
	IsCompleted    bool       `json:"isCompleted"`
	CreatedAt      time.Time  `json:"createdAt"`
	TierAssignedAt time.Time  `json:"tierAssignedAt"`
	// CompletedAt is nullable and always serialized: active tasks
	// carry an explicit null in exports.
	CompletedAt *time.Time `json:"completedAt"`
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if !t.Tier.IsValid() {
		return fmt.Errorf("invalid tier: %s", t.Tier)
	}
	if t.IsCompleted != (t.CompletedAt != nil) {
		return fmt.Errorf("completed_at must be set exactly when is_completed is true")
	}
	return nil
}

// Dwell returns how long the task has been in its current tier.
func (t *Task) Dwell(now time.Time) time.Duration {
	return now.Sub(t.TierAssignedAt)
}

// Age returns how long ago the task was created.
func (t *Task) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// DwellString renders the current dwell time for display, coarsened to
// the largest useful unit ("45m", "3h", "2d").
func (t *Task) DwellString(now time.Time) string {
	return humanDuration(t.Dwell(now))
}

func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
