package notifier

import (
	"context"

	"github.com/healthyfootprints/reminder-api/internal/email"
	"github.com/healthyfootprints/reminder-api/internal/model"
)

// EmailSink forwards fired reminders to a fixed on-call address.
type EmailSink struct {
	svc email.Service
	to  string
}

func NewEmailSink(svc email.Service, to string) *EmailSink {
	return &EmailSink{
		svc: svc,
		to:  to,
	}
}

func (s *EmailSink) Name() string {
	return "email"
}

func (s *EmailSink) Notify(ctx context.Context, n *model.ReminderNotification) error {
	return s.svc.SendReminder(ctx, s.to, n)
}
