package notifier

import (
	"context"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

// Sink is a channel capable of presenting a fired reminder to the operator.
// Delivery is best effort: the matcher calls every configured sink and logs
// failures without retrying.
type Sink interface {
	Name() string
	Notify(ctx context.Context, n *model.ReminderNotification) error
}
