package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

type fakeBroker struct {
	channel  string
	messages []interface{}
	err      error
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.channel = channel
	b.messages = append(b.messages, message)
	return nil
}

func (b *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func TestToastSinkPublishesToChannel(t *testing.T) {
	broker := &fakeBroker{}
	sink := NewToastSink(broker, "toasts")

	n := &model.ReminderNotification{Title: "Medicine", Body: "Take pill"}
	require.NoError(t, sink.Notify(context.Background(), n))

	assert.Equal(t, "toasts", broker.channel)
	require.Len(t, broker.messages, 1)
	assert.Equal(t, n, broker.messages[0])
	assert.Equal(t, "toast", sink.Name())
}
