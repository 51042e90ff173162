package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/healthyfootprints/reminder-api/pkg/errors"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/repository"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

type staffRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewStaffRepository(db *sqlx.DB, m *metrics.Metrics) repository.StaffRepository {
	return &staffRepository{db: db, metrics: m}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) (err error) {
	defer observeOp(r.metrics, "create_staff", time.Now(), &err)

	query := `
		INSERT INTO staff (
			id, uid, name, email, password_hash, status,
			login_attempts, last_login_attempt, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		staff.ID,
		staff.UID,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Status,
		staff.LoginAttempts,
		staff.LastLoginAttempt,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (_ *model.Staff, err error) {
	defer observeOp(r.metrics, "get_staff_by_email", time.Now(), &err)

	query := `SELECT * FROM staff WHERE email = $1`
	var staff model.Staff
	if err = r.db.GetContext(ctx, &staff, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", err)
		}
		return nil, fmt.Errorf("failed to get staff by email: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Staff, err error) {
	defer observeOp(r.metrics, "get_staff", time.Now(), &err)

	query := `SELECT * FROM staff WHERE id = $1`
	var staff model.Staff
	if err = r.db.GetContext(ctx, &staff, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", err)
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) (err error) {
	defer observeOp(r.metrics, "update_staff", time.Now(), &err)

	query := `
		UPDATE staff SET
			name = $1, email = $2, status = $3, login_attempts = $4,
			last_login_attempt = $5, updated_at = $6
		WHERE id = $7
	`
	staff.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		staff.Name,
		staff.Email,
		staff.Status,
		staff.LoginAttempts,
		staff.LastLoginAttempt,
		staff.UpdatedAt,
		staff.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return nil
}
