package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

var testMetrics = metrics.New("test", "postgres")

func TestObserveOpRecordsOutcome(t *testing.T) {
	var failed error = errors.New("connection reset")
	observeOp(testMetrics, "create_reminder", time.Now(), &failed)

	var ok error
	observeOp(testMetrics, "create_reminder", time.Now(), &ok)
	observeOp(testMetrics, "create_reminder", time.Now(), &ok)

	assert.Equal(t, 1.0,
		testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("create_reminder", "error")))
	assert.Equal(t, 2.0,
		testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("create_reminder", "success")))

	// Latency is observed once per operation regardless of outcome.
	assert.Equal(t, 1, testutil.CollectAndCount(testMetrics.DatabaseLatency))
}

func TestObserveOpSeesDeferredError(t *testing.T) {
	op := func() (err error) {
		defer observeOp(testMetrics, "update_staff", time.Now(), &err)
		return errors.New("deadlock detected")
	}
	_ = op()

	assert.Equal(t, 1.0,
		testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("update_staff", "error")))
}
