// Package remind schedules and executes time-deferred appointment reminders.
// It holds no lock on the schedule store and is fully decoupled from booking.
package remind

import (
	"time"

	"github.com/striver-24/medical-appointment-agent/internal/notify"
)

// Kind identifies which of the three fixed reminders a job carries.
type Kind string

const (
	KindGeneral    Kind = "general_reminder"
	KindIntakeForm Kind = "intake_form"
	KindConfirm    Kind = "attendance_confirmation"
)

// offsets are the fixed lead times before the appointment at which each
// reminder fires.
var offsets = []struct {
	Kind   Kind
	Before time.Duration
}{
	{KindGeneral, 48 * time.Hour},
	{KindIntakeForm, 24 * time.Hour},
	{KindConfirm, 6 * time.Hour},
}

// Contact is where a reminder is delivered.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Job is one deferred reminder, executed exactly once when FireAt arrives.
type Job struct {
	AppointmentID string    `json:"appointment_id"`
	Kind          Kind      `json:"kind"`
	FireAt        time.Time `json:"fire_at"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	Contact       Contact   `json:"contact"`
}

// Notification converts the job into the dispatcher's payload.
func (j Job) Notification() notify.Notification {
	return notify.Notification{
		Subject: j.Subject,
		Message: j.Message,
		Email:   j.Contact.Email,
		Phone:   j.Contact.Phone,
	}
}
