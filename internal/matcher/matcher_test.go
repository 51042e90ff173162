package matcher

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/notifier"
	"github.com/healthyfootprints/reminder-api/pkg/logger"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

// Prometheus collectors register globally, so the package shares one set.
var testMetrics = metrics.New("test", "matcher")

var quietLogger = logger.NewLogger(&logger.Config{
	Level:  logger.ErrorLevel,
	Output: io.Discard,
})

type fakeStore struct {
	mu        sync.Mutex
	reminders []*model.Reminder
	err       error
	calls     int
}

func (s *fakeStore) FetchReminders(_ context.Context) ([]*model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reminders, nil
}

func (s *fakeStore) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeSink struct {
	mu       sync.Mutex
	got      []*model.ReminderNotification
	failWith error
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) Notify(_ context.Context, n *model.ReminderNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.got = append(s.got, n)
	return nil
}

func (s *fakeSink) notifications() []*model.ReminderNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ReminderNotification, len(s.got))
	copy(out, s.got)
	return out
}

func newTestMatcher(store Store, staffID string, sinks ...notifier.Sink) *Matcher {
	return New(store, staffID, sinks, quietLogger, testMetrics)
}

func dailyReminder(start string) *model.Reminder {
	return &model.Reminder{
		ID:                   uuid.New(),
		ReminderType:         "Medicine",
		ReminderFrequency:    model.FrequencyDaily,
		ReminderTimeStart:    start,
		ReminderMessage:      "Take pill",
		NotificationPushType: "all",
	}
}

func TestEvaluateTickDailyFiresOnExactMinute(t *testing.T) {
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	// Any date fires as long as the minute matches.
	for _, now := range []time.Time{
		time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 8, 0, 30, 0, time.UTC),
	} {
		matched := m.EvaluateTick(now)
		require.Len(t, matched, 1, "expected a match at %v", now)
	}

	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC)))
	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 15, 7, 59, 0, 0, time.UTC)))
}

func TestEvaluateTickWeekly(t *testing.T) {
	rem := &model.Reminder{
		ID:                   uuid.New(),
		ReminderFrequency:    model.FrequencyWeekly,
		ReminderTimeStart:    "09:30",
		ReminderTimeDay:      model.StringList{"Monday"},
		NotificationPushType: "all",
	}
	store := &fakeStore{reminders: []*model.Reminder{rem}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	monday := time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC)
	tuesday := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	assert.Len(t, m.EvaluateTick(monday), 1)
	assert.Empty(t, m.EvaluateTick(tuesday))
}

func TestEvaluateTickMonthly(t *testing.T) {
	rem := &model.Reminder{
		ID:                   uuid.New(),
		ReminderFrequency:    model.FrequencyMonthly,
		ReminderTimeStart:    "10:00",
		ReminderTimeDate:     model.StringList{"2024-03-15"},
		NotificationPushType: "all",
	}
	store := &fakeStore{reminders: []*model.Reminder{rem}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	assert.Len(t, m.EvaluateTick(time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)), 1)
	assert.Len(t, m.EvaluateTick(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)), 1)
	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)))
}

func TestEvaluateTickOnDate(t *testing.T) {
	rem := &model.Reminder{
		ID:                   uuid.New(),
		ReminderFrequency:    model.FrequencyDay,
		ReminderTimeStart:    "10:00",
		ReminderTimeDate:     model.StringList{"2024-03-15"},
		NotificationPushType: "all",
	}
	store := &fakeStore{reminders: []*model.Reminder{rem}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	assert.Len(t, m.EvaluateTick(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)), 1)
	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, m.EvaluateTick(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)))
}

func TestEvaluateTickUnknownFrequencyNeverFires(t *testing.T) {
	rem := &model.Reminder{
		ID:                   uuid.New(),
		ReminderFrequency:    "Hourly",
		ReminderTimeStart:    "10:00",
		NotificationPushType: "all",
	}
	store := &fakeStore{reminders: []*model.Reminder{rem}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	assert.Empty(t, m.EvaluateTick(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
}

func TestShouldNotify(t *testing.T) {
	all := &model.Reminder{NotificationPushType: "all"}
	mine := &model.Reminder{NotificationPushType: "staff-1"}
	other := &model.Reminder{NotificationPushType: "staff-2"}

	assert.True(t, ShouldNotify(all, "staff-1"))
	assert.True(t, ShouldNotify(all, "anyone"))
	assert.True(t, ShouldNotify(mine, "staff-1"))
	assert.False(t, ShouldNotify(mine, "staff-2"))
	assert.False(t, ShouldNotify(other, "staff-1"))
}

func TestEvaluateTickIsPureOverSnapshot(t *testing.T) {
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	first := m.EvaluateTick(now)
	second := m.EvaluateTick(now)
	assert.Equal(t, first, second)
}

func TestDispatchHasNoDeduplication(t *testing.T) {
	sink := &fakeSink{}
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1", sink)
	require.NoError(t, m.Refresh(context.Background()))

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	rem := m.EvaluateTick(now)[0]

	// Two dispatches within the same matching minute produce two
	// notifications; nothing records that the reminder already fired.
	m.Dispatch(context.Background(), rem, now)
	m.Dispatch(context.Background(), rem, now)
	assert.Len(t, sink.notifications(), 2)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1")
	require.NoError(t, m.Refresh(context.Background()))
	require.Equal(t, 1, m.CacheSize())

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	before := m.EvaluateTick(now)

	store.setError(errors.New("connection refused"))
	err := m.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, m.CacheSize())
	assert.Equal(t, before, m.EvaluateTick(now))
}

func TestCheckTickEndToEnd(t *testing.T) {
	sink := &fakeSink{}
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1", sink)

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	m.CheckTick(context.Background(), now)

	got := sink.notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "Medicine", got[0].Title)
	assert.Equal(t, "Take pill", got[0].Body)
	assert.Empty(t, got[0].Note)

	// One minute later nothing fires.
	m.CheckTick(context.Background(), now.Add(time.Minute))
	assert.Len(t, sink.notifications(), 1)
}

func TestCheckTickAudienceFilter(t *testing.T) {
	mine := dailyReminder("08:00")
	mine.NotificationPushType = "staff-1"
	other := dailyReminder("08:00")
	other.NotificationPushType = "staff-2"

	sink := &fakeSink{}
	store := &fakeStore{reminders: []*model.Reminder{mine, other}}
	m := newTestMatcher(store, "staff-1", sink)

	m.CheckTick(context.Background(), time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))

	got := sink.notifications()
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID.String(), got[0].ReminderID)
}

func TestCheckTickUsesStaleSnapshotOnFetchFailure(t *testing.T) {
	sink := &fakeSink{}
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1", sink)
	require.NoError(t, m.Refresh(context.Background()))

	store.setError(errors.New("boom"))
	m.CheckTick(context.Background(), time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))

	// The fetch failed but matching ran against the previous snapshot.
	assert.Len(t, sink.notifications(), 1)
}

func TestDispatchSinkFailureDoesNotStopOtherSinks(t *testing.T) {
	failing := &fakeSink{failWith: errors.New("smtp down")}
	working := &fakeSink{}
	store := &fakeStore{reminders: []*model.Reminder{dailyReminder("08:00")}}
	m := newTestMatcher(store, "staff-1", failing, working)
	require.NoError(t, m.Refresh(context.Background()))

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	m.Dispatch(context.Background(), m.EvaluateTick(now)[0], now)

	assert.Len(t, working.notifications(), 1)
}
