package remind

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/striver-24/medical-appointment-agent/internal/observability/metrics"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// TaskTypeReminder is the asynq task type carrying a reminder job.
const TaskTypeReminder = "reminder:dispatch"

// AsynqEnqueuer defers reminder jobs through a Redis-backed asynq queue, so
// scheduled reminders survive process restarts. The worker side is built with
// NewWorkerMux and run by cmd/reminder-worker.
type AsynqEnqueuer struct {
	client *asynq.Client
	logger *logging.Logger
}

// NewAsynqEnqueuer creates an enqueuer on top of an asynq client.
func NewAsynqEnqueuer(client *asynq.Client, logger *logging.Logger) *AsynqEnqueuer {
	if logger == nil {
		logger = logging.Default()
	}
	return &AsynqEnqueuer{client: client, logger: logger}
}

// Enqueue schedules the job to be processed at its fire time.
func (e *AsynqEnqueuer) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("remind: marshal job: %w", err)
	}
	task := asynq.NewTask(TaskTypeReminder, payload)
	info, err := e.client.EnqueueContext(ctx, task, asynq.ProcessAt(job.FireAt))
	if err != nil {
		return fmt.Errorf("remind: enqueue task: %w", err)
	}
	e.logger.Info("remind: reminder queued",
		"task_id", info.ID,
		"appointment_id", job.AppointmentID,
		"kind", string(job.Kind),
		"fire_at", job.FireAt,
	)
	return nil
}

// NewWorkerMux builds the asynq handler mux for the worker process. Dispatch
// failures are logged, not returned: a reminder is attempted once and never
// retried or rolled back.
func NewWorkerMux(notifier Notifier, m *metrics.ReminderMetrics, logger *logging.Logger) *asynq.ServeMux {
	if logger == nil {
		logger = logging.Default()
	}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeReminder, func(ctx context.Context, t *asynq.Task) error {
		var job Job
		if err := json.Unmarshal(t.Payload(), &job); err != nil {
			return fmt.Errorf("remind: decode task payload: %w", err)
		}
		if err := notifier.Dispatch(ctx, job.Notification()); err != nil {
			m.ObserveFired(string(job.Kind), "error")
			logger.Error("remind: reminder dispatch failed",
				"appointment_id", job.AppointmentID,
				"kind", string(job.Kind),
				"error", err,
			)
			return nil
		}
		m.ObserveFired(string(job.Kind), "sent")
		logger.Info("remind: reminder dispatched",
			"appointment_id", job.AppointmentID,
			"kind", string(job.Kind),
		)
		return nil
	})
	return mux
}

var _ Enqueuer = (*AsynqEnqueuer)(nil)
