// Package booking performs the lock-guarded state transition that turns an
// Available slot into a Booked one, and the lock-scoped searches that feed it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/striver-24/medical-appointment-agent/internal/lock"
	"github.com/striver-24/medical-appointment-agent/internal/observability/metrics"
	"github.com/striver-24/medical-appointment-agent/internal/schedule"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

var (
	// ErrSlotNotFound means no slot with the requested start time exists.
	ErrSlotNotFound = errors.New("booking: slot not found")
	// ErrSlotTaken means the slot's state changed between discovery and
	// commit. Callers should re-search and pick another window.
	ErrSlotTaken = errors.New("booking: slot is no longer available")
)

// Appointment is the immutable outcome of a successful booking.
type Appointment struct {
	ID          string
	Doctor      string
	SlotStart   time.Time
	PatientID   string
	PatientName string
	CreatedAt   time.Time
}

// Service coordinates slot search and booking against a shared schedule store.
// Every read-then-write sequence runs inside one lock scope keyed by the
// container resource, so two concurrent bookings of the same slot cannot both
// observe it Available. The lock covers the whole container; bookings for
// different doctors serialize on it. That is a throughput ceiling, not a
// correctness gap, and follows from the whole-container rewrite.
type Service struct {
	store    schedule.Store
	locker   lock.Locker
	resource string
	loc      *time.Location
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates a booking service. The resource names the lock guarding
// the store's container; all writers of the same container must use the same
// name. The location fixes the day boundary for date-filtered searches and
// must match the one the store was built with; nil means time.Local.
func NewService(store schedule.Store, locker lock.Locker, resource string, loc *time.Location, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		locker:   locker,
		resource: resource,
		loc:      loc,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// FindAvailableSlots returns up to three earliest windows of consecutive
// Available slots matching the duration, strictly in the future. An empty
// result is a normal outcome. The read runs under the container lock so a
// search never observes a half-applied write on backends without atomic
// replacement.
func (s *Service) FindAvailableSlots(ctx context.Context, doctor string, date *time.Time, durationMin int) ([]schedule.AppointmentWindow, error) {
	var windows []schedule.AppointmentWindow
	err := s.locker.WithLock(ctx, s.resource, func(ctx context.Context) error {
		sched, err := s.store.ReadAll(ctx, doctor)
		if err != nil {
			return err
		}
		windows = schedule.FindWindows(doctor, sched, schedule.SearchOptions{
			Date:     date,
			Location: s.loc,
			Duration: time.Duration(durationMin) * time.Minute,
			Now:      s.now(),
		})
		return nil
	})
	if err != nil {
		s.metrics.ObserveSearch("error")
		return nil, err
	}
	if len(windows) == 0 {
		s.metrics.ObserveSearch("not_found")
	} else {
		s.metrics.ObserveSearch("found")
	}
	return windows, nil
}

// Book flips a single slot from Available to Booked and persists the whole
// container. The re-read, verification, mutation, and write all happen inside
// one lock scope; a search result is never trusted as still valid.
func (s *Service) Book(ctx context.Context, doctor string, slotStart time.Time, patientID, patientName string) (*Appointment, error) {
	var appt *Appointment
	waitStart := time.Now()
	err := s.locker.WithLock(ctx, s.resource, func(ctx context.Context) error {
		s.metrics.ObserveLockWait(time.Since(waitStart).Seconds())

		sched, err := s.store.ReadAll(ctx, doctor)
		if err != nil {
			return err
		}

		idx := -1
		for i := range sched {
			if sched[i].StartTime.Equal(slotStart) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrSlotNotFound
		}
		if sched[idx].Status != schedule.StatusAvailable {
			return ErrSlotTaken
		}

		sched[idx].Status = schedule.StatusBooked
		sched[idx].Occupant = fmt.Sprintf("%s (ID: %s)", patientName, patientID)

		if err := s.store.WriteAll(ctx, doctor, sched); err != nil {
			return fmt.Errorf("booking: persist: %w", err)
		}

		now := s.now()
		appt = &Appointment{
			ID:          newAppointmentID(now),
			Doctor:      doctor,
			SlotStart:   slotStart,
			PatientID:   patientID,
			PatientName: patientName,
			CreatedAt:   now,
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveBooking(bookingOutcome(err))
		return nil, err
	}

	s.metrics.ObserveBooking("success")
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor", doctor,
		"slot_start", slotStart.Format(time.RFC3339),
		"patient_id", patientID,
	)
	return appt, nil
}

// Doctors lists the doctors known to the container.
func (s *Service) Doctors(ctx context.Context) ([]string, error) {
	return s.store.Doctors(ctx)
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return "conflict"
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, schedule.ErrDoctorNotFound):
		return "not_found"
	case errors.Is(err, lock.ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}
