package remind

import (
	"fmt"
	"time"
)

// subjectFor returns the email subject for a reminder kind.
func subjectFor(kind Kind) string {
	switch kind {
	case KindIntakeForm:
		return "Action Required: Intake Form"
	case KindConfirm:
		return "Action Required: Confirm Your Appointment"
	default:
		return "Appointment Reminder"
	}
}

// messageFor returns the patient-facing message for a reminder kind.
func messageFor(kind Kind, appointmentID string, appointmentAt time.Time) string {
	switch kind {
	case KindIntakeForm:
		return fmt.Sprintf(
			"Reminder for appointment %s: Have you completed your new patient intake form? If not, please let us know if you need assistance.",
			appointmentID)
	case KindConfirm:
		return fmt.Sprintf(
			"Final reminder for appointment %s today at %s. Please reply to this message to confirm your attendance. If you need to cancel, please let us know the reason.",
			appointmentID, appointmentAt.Format("3:04 PM"))
	default:
		return fmt.Sprintf(
			"Reminder: Your appointment %s is scheduled for %s.",
			appointmentID, appointmentAt.Format("Monday, January 2 at 3:04 PM"))
	}
}
