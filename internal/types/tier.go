package types

import "time"

// Tier represents one of the four urgency buckets a task belongs to.
// Tiers are named after CPU cache levels: L1 is the hot set you are
// actively working, MEM is the cold backlog.
type Tier string

const (
	TierL1  Tier = "l1"
	TierL2  Tier = "l2"
	TierL3  Tier = "l3"
	TierMem Tier = "mem"
)

// AllTiers returns the tiers in display order, hottest first.
func AllTiers() []Tier {
	return []Tier{TierL1, TierL2, TierL3, TierMem}
}

// IsValid checks if the tier value is valid
func (t Tier) IsValid() bool {
	switch t {
	case TierL1, TierL2, TierL3, TierMem:
		return true
	}
	return false
}

// DisplayName returns the human-readable tier name (e.g. "L1").
func (t Tier) DisplayName() string {
	switch t {
	case TierL1:
		return "L1"
	case TierL2:
		return "L2"
	case TierL3:
		return "L3"
	case TierMem:
		return "MEM"
	}
	return string(t)
}

// EscalationThreshold returns how long a task must dwell in this tier
// before it becomes eligible for automatic escalation. Zero means the
// tier never escalates (L1 is already hottest, MEM is parked).
func (t Tier) EscalationThreshold() time.Duration {
	switch t {
	case TierL2:
		return 7200 * time.Second
	case TierL3:
		return 18000 * time.Second
	}
	return 0
}

// EscalationTarget returns the tier a task escalates into, and whether
// this tier escalates at all. Escalation only ever moves toward L1.
func (t Tier) EscalationTarget() (Tier, bool) {
	switch t {
	case TierL2:
		return TierL1, true
	case TierL3:
		return TierL2, true
	}
	return "", false
}

// TargetCapacity returns the maximum occupancy of the escalation target
// that still permits escalation out of this tier. Escalation is gated so
// the hot tiers stay small enough to actually look at.
func (t Tier) TargetCapacity() int {
	switch t {
	case TierL2, TierL3:
		return 3
	}
	return 0
}

// Promoted returns the tier a manual promote moves a task into, and
// whether promotion is possible. L1 cannot promote further.
func (t Tier) Promoted() (Tier, bool) {
	switch t {
	case TierL2:
		return TierL1, true
	case TierL3:
		return TierL2, true
	case TierMem:
		return TierL3, true
	}
	return "", false
}

// Demoted returns the tier a manual snooze moves a task into, and
// whether demotion is possible. MEM cannot demote further.
func (t Tier) Demoted() (Tier, bool) {
	switch t {
	case TierL1:
		return TierL2, true
	case TierL2:
		return TierL3, true
	case TierL3:
		return TierMem, true
	}
	return "", false
}

// Next returns the next tier in cyclic display order (L1→L2→L3→MEM→L1).
// Used by interactive tier cycling.
func (t Tier) Next() Tier {
	switch t {
	case TierL1:
		return TierL2
	case TierL2:
		return TierL3
	case TierL3:
		return TierMem
	case TierMem:
		return TierL1
	}
	return t
}

// Previous returns the previous tier in cyclic display order.
func (t Tier) Previous() Tier {
	switch t {
	case TierL1:
		return TierMem
	case TierL2:
		return TierL1
	case TierL3:
		return TierL2
	case TierMem:
		return TierL3
	}
	return t
}

// ParseTier parses a tier from user input, accepting both the stored
// form ("l1") and the display form ("L1").
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "l1", "L1":
		return TierL1, true
	case "l2", "L2":
		return TierL2, true
	case "l3", "L3":
		return TierL3, true
	case "mem", "MEM", "Mem":
		return TierMem, true
	}
	return "", false
}
