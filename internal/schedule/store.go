package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrDoctorNotFound is returned when the container holds no schedule for the
// requested doctor.
var ErrDoctorNotFound = errors.New("schedule: doctor not found")

// Store is the durable home of the multi-doctor slot container.
//
// WriteAll replaces a doctor's entire slot sequence. Implementations must make
// the replacement atomic with respect to readers: the container is either the
// old state or the new state, never a mix. Callers are responsible for wrapping
// read-then-write sequences in a lock scope; the store itself does not lock.
type Store interface {
	ReadAll(ctx context.Context, doctor string) (Schedule, error)
	ReadDay(ctx context.Context, doctor string, date time.Time) (Schedule, error)
	WriteAll(ctx context.Context, doctor string, sched Schedule) error
	Doctors(ctx context.Context) ([]string, error)
}

// filterDay keeps slots whose start time falls on the given calendar day,
// evaluated in the store's reference location.
func filterDay(sched Schedule, date time.Time, loc *time.Location) Schedule {
	y, m, d := date.In(loc).Date()
	out := make(Schedule, 0, len(sched))
	for _, slot := range sched {
		sy, sm, sd := slot.StartTime.In(loc).Date()
		if sy == y && sm == m && sd == d {
			out = append(out, slot)
		}
	}
	return out
}
