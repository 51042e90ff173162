package matcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

type panickingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *panickingSink) Name() string { return "panicking" }

func (s *panickingSink) Notify(_ context.Context, _ *model.ReminderNotification) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	panic("sink exploded")
}

func (s *panickingSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestProcessorRunsBothLoops(t *testing.T) {
	store := &fakeStore{}
	m := newTestMatcher(store, "staff-1")
	p := NewProcessor(m, ProcessorConfig{
		SyncInterval:  20 * time.Millisecond,
		CheckInterval: 20 * time.Millisecond,
	}, quietLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after cancellation")
	}

	// Initial sync plus several ticks from each loop.
	assert.GreaterOrEqual(t, store.fetchCount(), 3)
}

func TestProcessorStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	m := newTestMatcher(store, "staff-1")
	p := NewProcessor(m, ProcessorConfig{
		SyncInterval:  10 * time.Millisecond,
		CheckInterval: 10 * time.Millisecond,
	}, quietLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after cancellation")
	}

	fetches := store.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, fetches, store.fetchCount(), "ticks continued after teardown")
}

func TestProcessorSurvivesTickPanic(t *testing.T) {
	sink := &panickingSink{}
	// Daily reminders covering this minute and the next make every check
	// tick reach the panicking sink even across a minute rollover.
	now := time.Now()
	store := &fakeStore{reminders: []*model.Reminder{
		dailyReminder(now.Format("15:04")),
		dailyReminder(now.Add(time.Minute).Format("15:04")),
	}}
	m := newTestMatcher(store, "staff-1", sink)

	p := NewProcessor(m, ProcessorConfig{
		SyncInterval:  time.Hour,
		CheckInterval: 20 * time.Millisecond,
	}, quietLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	<-done

	// The first panic did not stop the loop; later ticks kept dispatching.
	require.GreaterOrEqual(t, sink.callCount(), 2)
}

func TestNewProcessorRejectsZeroIntervals(t *testing.T) {
	store := &fakeStore{}
	m := newTestMatcher(store, "staff-1")

	assert.Panics(t, func() {
		NewProcessor(m, ProcessorConfig{SyncInterval: 0, CheckInterval: time.Second}, quietLogger)
	})
	assert.Panics(t, func() {
		NewProcessor(m, ProcessorConfig{SyncInterval: time.Second, CheckInterval: 0}, quietLogger)
	})
}
