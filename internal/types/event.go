package types

import "time"

// TaskEventType categorizes audit trail events
type TaskEventType string

const (
	EventCreated     TaskEventType = "created"
	EventCompleted   TaskEventType = "completed"
	EventTierChanged TaskEventType = "tier_changed"
	EventEscalated   TaskEventType = "escalated"
	EventCleared     TaskEventType = "cleared"
)

// IsValid checks if the event type value is valid
func (e TaskEventType) IsValid() bool {
	switch e {
	case EventCreated, EventCompleted, EventTierChanged, EventEscalated, EventCleared:
		return true
	}
	return false
}

// TaskEvent represents an audit trail entry. Events are recorded in the
// same transaction as the mutation they describe.
type TaskEvent struct {
	ID        int64         `json:"id"`
	TaskID    string        `json:"task_id"`
	EventType TaskEventType `json:"event_type"`
	OldTier   *Tier         `json:"old_tier,omitempty"`
	NewTier   *Tier         `json:"new_tier,omitempty"`
	Comment   string        `json:"comment,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
