package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/healthyfootprints/reminder-api/internal/config"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// observeOp records the outcome and duration of one database operation.
// Deferred with a pointer to the named return so it sees the final error.
func observeOp(m *metrics.Metrics, op string, start time.Time, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(op, status).Inc()
	m.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
