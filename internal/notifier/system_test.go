package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

type fakePermissionAPI struct {
	answer   Permission
	err      error
	requests int
}

func (f *fakePermissionAPI) Request(_ context.Context) (Permission, error) {
	f.requests++
	return f.answer, f.err
}

type fakePusher struct {
	pushed []*model.ReminderNotification
	err    error
}

func (f *fakePusher) Push(_ context.Context, n *model.ReminderNotification) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, n)
	return nil
}

func note(title string) *model.ReminderNotification {
	return &model.ReminderNotification{Title: title, Body: "body"}
}

func TestSystemSinkDeliversWhenGranted(t *testing.T) {
	perms := &fakePermissionAPI{answer: PermissionGranted}
	pusher := &fakePusher{}
	sink := NewSystemSink(perms, pusher)

	require.NoError(t, sink.Notify(context.Background(), note("a")))
	assert.Len(t, pusher.pushed, 1)

	// Permission is now sticky; no further prompt.
	require.NoError(t, sink.Notify(context.Background(), note("b")))
	assert.Len(t, pusher.pushed, 2)
	assert.Equal(t, 1, perms.requests)
}

func TestSystemSinkDeniedIsPermanentNoOp(t *testing.T) {
	perms := &fakePermissionAPI{answer: PermissionDenied}
	pusher := &fakePusher{}
	sink := NewSystemSink(perms, pusher)

	require.NoError(t, sink.Notify(context.Background(), note("a")))
	require.NoError(t, sink.Notify(context.Background(), note("b")))

	assert.Empty(t, pusher.pushed)
	// Denied is recorded after the first request; never prompts again.
	assert.Equal(t, 1, perms.requests)
}

func TestSystemSinkRetriesRequestWhileUndetermined(t *testing.T) {
	perms := &fakePermissionAPI{err: errors.New("gateway unreachable")}
	pusher := &fakePusher{}
	sink := NewSystemSink(perms, pusher)

	assert.Error(t, sink.Notify(context.Background(), note("a")))
	assert.Error(t, sink.Notify(context.Background(), note("b")))
	assert.Equal(t, 2, perms.requests)
	assert.Empty(t, pusher.pushed)

	// Once the gateway answers, the state settles.
	perms.err = nil
	perms.answer = PermissionGranted
	require.NoError(t, sink.Notify(context.Background(), note("c")))
	assert.Len(t, pusher.pushed, 1)
}

func TestSystemSinkName(t *testing.T) {
	sink := NewSystemSink(&fakePermissionAPI{}, &fakePusher{})
	assert.Equal(t, "system", sink.Name())
}
