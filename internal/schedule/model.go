package schedule

import (
	"slices"
	"time"
)

// Granularity is the fixed step between adjacent slots. Every schedule in the
// container uses the same step; the search and booking code rely on it.
const Granularity = 15 * time.Minute

// SlotStatus is the lifecycle state of a single slot.
type SlotStatus string

const (
	StatusAvailable SlotStatus = "Available"
	StatusBooked    SlotStatus = "Booked"
	StatusBlocked   SlotStatus = "Blocked"
)

// Slot is the smallest schedulable unit on a doctor's calendar.
type Slot struct {
	StartTime time.Time  `json:"start_time"`
	Status    SlotStatus `json:"status"`
	Occupant  string     `json:"occupant,omitempty"`
}

// Schedule is one doctor's ordered slot sequence.
type Schedule []Slot

// Clone returns a copy that can be mutated without touching the original.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// Sort orders slots by start time ascending.
func (s Schedule) Sort() {
	slices.SortFunc(s, func(a, b Slot) int {
		return a.StartTime.Compare(b.StartTime)
	})
}

// AppointmentWindow is a candidate booking produced by the search engine.
// It is derived from a snapshot and never persisted.
type AppointmentWindow struct {
	Doctor    string
	StartTime time.Time
	Duration  time.Duration
}
