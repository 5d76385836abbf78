package schedule

import "time"

// DefaultWindowLimit caps how many candidate windows a search returns.
const DefaultWindowLimit = 3

// SearchOptions narrow a window search over one doctor's schedule snapshot.
type SearchOptions struct {
	// Date restricts the search to a single calendar day when set,
	// evaluated in Location.
	Date *time.Time
	// Location fixes the day boundary for Date; nil means time.Local.
	Location *time.Location
	// Duration is the requested appointment length. Durations that are not
	// a multiple of the granularity truncate toward zero; anything shorter
	// than one slot still occupies one slot.
	Duration time.Duration
	// Now excludes slots at or before this instant.
	Now time.Time
	// Limit caps the result count; zero means DefaultWindowLimit.
	Limit int
}

// FindWindows computes the earliest qualifying consecutive-slot windows in the
// snapshot. A window qualifies when every slot in it is Available and each
// neighbouring pair is exactly one granularity step apart, which rejects runs
// that span a gap left by a filtered-out or missing slot. An empty result is a
// normal outcome, not an error.
func FindWindows(doctor string, sched Schedule, opts SearchOptions) []AppointmentWindow {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	k := int(opts.Duration / Granularity)
	if k < 1 {
		k = 1
	}

	candidates := make(Schedule, 0, len(sched))
	for _, slot := range sched {
		if !slot.StartTime.After(opts.Now) {
			continue
		}
		if opts.Date != nil && !sameDay(slot.StartTime, *opts.Date, opts.Location) {
			continue
		}
		candidates = append(candidates, slot)
	}

	var windows []AppointmentWindow
	for i := 0; i+k <= len(candidates); i++ {
		if !qualifies(candidates[i : i+k]) {
			continue
		}
		windows = append(windows, AppointmentWindow{
			Doctor:    doctor,
			StartTime: candidates[i].StartTime,
			Duration:  time.Duration(k) * Granularity,
		})
		if len(windows) == limit {
			break
		}
	}
	return windows
}

func qualifies(window Schedule) bool {
	for i, slot := range window {
		if slot.Status != StatusAvailable {
			return false
		}
		if i > 0 && window[i].StartTime.Sub(window[i-1].StartTime) != Granularity {
			return false
		}
	}
	return true
}

func sameDay(t, date time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ty, tm, td := t.In(loc).Date()
	dy, dm, dd := date.In(loc).Date()
	return ty == dy && tm == dm && td == dd
}
