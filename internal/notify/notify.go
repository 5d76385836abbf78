// Package notify defines the notification dispatcher the scheduling core
// delegates to. The core only calls these interfaces; delivery transport
// belongs to the implementations.
package notify

import (
	"context"
	"fmt"

	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SendGrid, SES, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender sends SMS messages to patients.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// Notification is one patient-facing message fanned out over both channels.
type Notification struct {
	Subject string
	Message string
	Email   string
	Phone   string
}

// Dispatcher sends a notification by SMS and email, best-effort. A channel
// without a recipient is skipped; channel failures are collected so callers
// can log them, but one channel failing never suppresses the other.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	logger *logging.Logger
}

// NewDispatcher creates a dispatcher. Either sender may be nil, disabling
// that channel.
func NewDispatcher(email EmailSender, sms SMSSender, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{email: email, sms: sms, logger: logger}
}

// Dispatch delivers the notification on every configured channel.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	var errs []error

	if d.sms != nil && n.Phone != "" {
		if err := d.sms.SendSMS(ctx, n.Phone, n.Message); err != nil {
			d.logger.Error("notify: failed to send SMS", "error", err, "to", n.Phone)
			errs = append(errs, err)
		} else {
			d.logger.Info("notify: SMS sent", "to", n.Phone, "subject", n.Subject)
		}
	}

	if d.email != nil && n.Email != "" {
		msg := EmailMessage{
			To:      n.Email,
			Subject: n.Subject,
			Body:    n.Message,
		}
		if err := d.email.Send(ctx, msg); err != nil {
			d.logger.Error("notify: failed to send email", "error", err, "to", n.Email)
			errs = append(errs, err)
		} else {
			d.logger.Info("notify: email sent", "to", n.Email, "subject", n.Subject)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}
