package remind

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/striver-24/medical-appointment-agent/internal/notify"
	"github.com/striver-24/medical-appointment-agent/internal/observability/metrics"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// ErrEngineStopped is returned when a job is enqueued outside the engine's
// Start/Stop window.
var ErrEngineStopped = errors.New("remind: timer engine not running")

// dispatchTimeout bounds a single reminder's delivery attempt.
const dispatchTimeout = 30 * time.Second

// Notifier is the external notification dispatcher a fired job delegates to.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.Notification) error
}

// TimerEngine executes jobs in-process at their fire time. It is an explicit
// component with a Start/Stop lifecycle rather than ambient global state:
// callers construct one, inject it into the Scheduler as its Enqueuer, and
// tear it down when done. Stop cancels pending timers and waits for in-flight
// dispatches. Jobs do not survive a process restart; deployments that need
// durability use the asynq queue instead.
type TimerEngine struct {
	notifier Notifier
	metrics  *metrics.ReminderMetrics
	logger   *logging.Logger
	clock    func() time.Time

	mu      sync.Mutex
	running bool
	nextID  int64
	timers  map[int64]*time.Timer
	wg      sync.WaitGroup
}

// NewTimerEngine creates a stopped engine; call Start before enqueueing.
func NewTimerEngine(notifier Notifier, m *metrics.ReminderMetrics, logger *logging.Logger) *TimerEngine {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimerEngine{
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		clock:    time.Now,
		timers:   map[int64]*time.Timer{},
	}
}

// Start makes the engine accept jobs.
func (e *TimerEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
}

// Stop cancels all pending timers and waits for any in-flight dispatch to
// finish. Enqueue fails after Stop.
func (e *TimerEngine) Stop() {
	e.mu.Lock()
	e.running = false
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// Enqueue arms a timer for the job. A fire time at or before now fires
// immediately.
func (e *TimerEngine) Enqueue(ctx context.Context, job Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrEngineStopped
	}

	delay := job.FireAt.Sub(e.clock())
	if delay < 0 {
		delay = 0
	}

	e.nextID++
	id := e.nextID
	e.timers[id] = time.AfterFunc(delay, func() {
		e.fire(id, job)
	})
	return nil
}

// Pending reports how many jobs are armed but not yet fired.
func (e *TimerEngine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.timers)
}

func (e *TimerEngine) fire(id int64, job Job) {
	e.mu.Lock()
	if _, ok := e.timers[id]; !ok {
		// Lost the race with Stop.
		e.mu.Unlock()
		return
	}
	delete(e.timers, id)
	e.wg.Add(1)
	e.mu.Unlock()
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	// Dispatch failures are logged only: reminders are best-effort follow-up,
	// never part of the booking guarantee.
	if err := e.notifier.Dispatch(ctx, job.Notification()); err != nil {
		e.metrics.ObserveFired(string(job.Kind), "error")
		e.logger.Error("remind: reminder dispatch failed",
			"appointment_id", job.AppointmentID,
			"kind", string(job.Kind),
			"error", err,
		)
		return
	}
	e.metrics.ObserveFired(string(job.Kind), "sent")
	e.logger.Info("remind: reminder dispatched",
		"appointment_id", job.AppointmentID,
		"kind", string(job.Kind),
	)
}

var _ Enqueuer = (*TimerEngine)(nil)
