package notifier

import (
	"context"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/pkg/messaging"
)

// ToastSink publishes fired reminders to a broker channel; the web tier
// subscribes and renders them as in-page toasts.
type ToastSink struct {
	broker  messaging.Broker
	channel string
}

func NewToastSink(broker messaging.Broker, channel string) *ToastSink {
	return &ToastSink{
		broker:  broker,
		channel: channel,
	}
}

func (s *ToastSink) Name() string {
	return "toast"
}

func (s *ToastSink) Notify(ctx context.Context, n *model.ReminderNotification) error {
	return s.broker.Publish(ctx, s.channel, n)
}
