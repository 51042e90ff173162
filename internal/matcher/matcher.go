package matcher

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/notifier"
	"github.com/healthyfootprints/reminder-api/pkg/logger"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

const minuteLayout = "15:04"

// Store supplies the full reminder collection.
type Store interface {
	FetchReminders(ctx context.Context) ([]*model.Reminder, error)
}

// entry pairs a reminder with its recurrence, compiled once per snapshot so
// match checks never re-parse the string-typed frequency fields.
type entry struct {
	reminder   *model.Reminder
	recurrence model.Recurrence
}

// Matcher holds the reminder snapshot and decides, for a given wall-clock
// minute, which reminders fire for the signed-in operator.
//
// The snapshot is replaced wholesale by Refresh and read by EvaluateTick;
// the two periodic loops run on separate goroutines, so access goes through
// a RWMutex. A failed refresh leaves the previous snapshot in place.
type Matcher struct {
	store   Store
	sinks   []notifier.Sink
	staffID string
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu    sync.RWMutex
	cache []entry
}

func New(store Store, staffID string, sinks []notifier.Sink, log *logger.Logger, m *metrics.Metrics) *Matcher {
	return &Matcher{
		store:   store,
		sinks:   sinks,
		staffID: staffID,
		logger:  log,
		metrics: m,
	}
}

// Refresh fetches the reminder collection and replaces the snapshot
// atomically. On failure the previous snapshot is kept and the error is
// returned for logging; this is best-effort background sync, never
// surfaced to the operator.
func (m *Matcher) Refresh(ctx context.Context) error {
	timer := prometheus.NewTimer(m.metrics.ReminderFetchLatency)
	reminders, err := m.store.FetchReminders(ctx)
	timer.ObserveDuration()

	m.metrics.ReminderFetches.Inc()
	if err != nil {
		m.metrics.ReminderFetchFailures.Inc()
		return err
	}

	snapshot := make([]entry, 0, len(reminders))
	for _, r := range reminders {
		snapshot = append(snapshot, entry{reminder: r, recurrence: r.Recurrence()})
	}

	m.mu.Lock()
	m.cache = snapshot
	m.mu.Unlock()

	m.metrics.RemindersCached.Set(float64(len(snapshot)))
	return nil
}

// EvaluateTick returns every cached reminder that fires at now. A reminder
// fires when its start time equals now truncated to the minute and its
// recurrence rule holds on now's date. Pure with respect to the snapshot:
// evaluating the same minute twice yields the same set.
func (m *Matcher) EvaluateTick(now time.Time) []*model.Reminder {
	minute := now.Format(minuteLayout)

	m.mu.RLock()
	snapshot := m.cache
	m.mu.RUnlock()

	var matched []*model.Reminder
	for _, e := range snapshot {
		if e.reminder.ReminderTimeStart != minute {
			continue
		}
		if !e.recurrence.Matches(now) {
			continue
		}
		matched = append(matched, e.reminder)
	}
	return matched
}

// ShouldNotify is the audience filter: a reminder addressed to "all" reaches
// every operator, otherwise only the one whose staff ID it names.
func ShouldNotify(r *model.Reminder, staffID string) bool {
	return r.NotificationPushType == "all" || r.NotificationPushType == staffID
}

// Dispatch fans the fired reminder out to every sink. Fire and forget: no
// acknowledgement, no retry, and no de-duplication record is kept, so a
// second dispatch within the same matching minute produces a second
// notification on every channel.
func (m *Matcher) Dispatch(ctx context.Context, r *model.Reminder, firedAt time.Time) {
	n := model.NotificationFromReminder(r, firedAt)
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			m.metrics.NotificationFailures.WithLabelValues(sink.Name()).Inc()
			m.logger.Error(err, "sink delivery failed",
				"sink", sink.Name(), "reminder_id", n.ReminderID)
			continue
		}
		m.metrics.NotificationsDispatched.WithLabelValues(sink.Name()).Inc()
	}
}

// CheckTick runs one check cycle: sync the snapshot, then evaluate and
// dispatch. A failed refresh is logged and evaluation proceeds against the
// stale snapshot.
func (m *Matcher) CheckTick(ctx context.Context, now time.Time) {
	m.metrics.CheckTicks.Inc()

	if err := m.Refresh(ctx); err != nil {
		m.logger.Error(err, "reminder sync failed, matching against previous snapshot")
	}

	for _, r := range m.EvaluateTick(now) {
		if !ShouldNotify(r, m.staffID) {
			continue
		}
		m.metrics.RemindersMatched.Inc()
		m.Dispatch(ctx, r, now)
	}
}

// CacheSize reports the current snapshot length.
func (m *Matcher) CacheSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
