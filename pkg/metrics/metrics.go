package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reminder sync metrics
	ReminderFetches       prometheus.Counter
	ReminderFetchFailures prometheus.Counter
	ReminderFetchLatency  prometheus.Histogram
	RemindersCached       prometheus.Gauge

	// Match/dispatch metrics
	CheckTicks              prometheus.Counter
	RemindersMatched        prometheus.Counter
	NotificationsDispatched *prometheus.CounterVec
	NotificationFailures    *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// New creates and registers all application metrics
func New(namespace, subsystem string) *Metrics {
	return &Metrics{
		ReminderFetches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminder_fetches_total",
			Help:      "Total number of reminder collection fetches",
		}),
		ReminderFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminder_fetch_failures_total",
			Help:      "Total number of failed reminder collection fetches",
		}),
		ReminderFetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminder_fetch_duration_seconds",
			Help:      "Time spent fetching the reminder collection",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		RemindersCached: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_cached",
			Help:      "Number of reminders in the current snapshot",
		}),
		CheckTicks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "check_ticks_total",
			Help:      "Total number of reminder check ticks",
		}),
		RemindersMatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_matched_total",
			Help:      "Total number of reminders that matched a check tick",
		}),
		NotificationsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_dispatched_total",
			Help:      "Total number of notifications handed to a sink",
		}, []string{"sink"}),
		NotificationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_failures_total",
			Help:      "Total number of sink delivery failures",
		}, []string{"sink"}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Time spent on database operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
