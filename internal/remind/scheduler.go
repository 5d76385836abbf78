package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/striver-24/medical-appointment-agent/internal/observability/metrics"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// Enqueuer accepts a deferred reminder job for later execution.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Scheduler turns a confirmed appointment into up to three deferred reminder
// jobs at fixed offsets before the appointment time.
type Scheduler struct {
	queue   Enqueuer
	metrics *metrics.ReminderMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewScheduler creates a reminder scheduler backed by the given queue.
func NewScheduler(queue Enqueuer, m *metrics.ReminderMetrics, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		queue:   queue,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ScheduleInput carries what the scheduler needs from a confirmed booking.
type ScheduleInput struct {
	AppointmentID string
	AppointmentAt time.Time
	Contact       Contact
}

// Schedule enqueues one job per fixed offset whose fire time is still in the
// future. Fire times already in the past are silently skipped; booking an
// appointment less than 48/24/6 hours out simply produces fewer jobs. The
// returned slice holds the jobs actually enqueued.
func (s *Scheduler) Schedule(ctx context.Context, input ScheduleInput) ([]Job, error) {
	now := s.now()
	var jobs []Job
	for _, off := range offsets {
		fireAt := input.AppointmentAt.Add(-off.Before)
		if !fireAt.After(now) {
			s.metrics.ObserveScheduled(string(off.Kind), "skipped_past")
			s.logger.Debug("remind: fire time already past, skipping",
				"appointment_id", input.AppointmentID,
				"kind", string(off.Kind),
			)
			continue
		}

		job := Job{
			AppointmentID: input.AppointmentID,
			Kind:          off.Kind,
			FireAt:        fireAt,
			Subject:       subjectFor(off.Kind),
			Message:       messageFor(off.Kind, input.AppointmentID, input.AppointmentAt),
			Contact:       input.Contact,
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.metrics.ObserveScheduled(string(off.Kind), "error")
			return jobs, fmt.Errorf("remind: enqueue %s for %s: %w", off.Kind, input.AppointmentID, err)
		}
		s.metrics.ObserveScheduled(string(off.Kind), "enqueued")
		jobs = append(jobs, job)
	}

	s.logger.Info("remind: reminders scheduled",
		"appointment_id", input.AppointmentID,
		"count", len(jobs),
	)
	return jobs, nil
}
