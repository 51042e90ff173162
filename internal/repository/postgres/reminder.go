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

type reminderRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewReminderRepository(db *sqlx.DB, m *metrics.Metrics) repository.ReminderRepository {
	return &reminderRepository{db: db, metrics: m}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) (err error) {
	defer observeOp(r.metrics, "create_reminder", time.Now(), &err)

	query := `
		INSERT INTO reminders (
			id, patient_uid, reminder_type, reminder_frequency,
			reminder_time_start, reminder_time_end, reminder_time_day,
			reminder_time_date, reminder_message, note,
			notification_push_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.PatientUID,
		reminder.ReminderType,
		reminder.ReminderFrequency,
		reminder.ReminderTimeStart,
		reminder.ReminderTimeEnd,
		reminder.TimeDayJSON,
		reminder.TimeDateJSON,
		reminder.ReminderMessage,
		reminder.Note,
		reminder.NotificationPushType,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Reminder, err error) {
	defer observeOp(r.metrics, "get_reminder", time.Now(), &err)

	query := `SELECT * FROM reminders WHERE id = $1`
	var reminder model.Reminder
	if err = r.db.GetContext(ctx, &reminder, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("reminder", err)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *model.Reminder) (err error) {
	defer observeOp(r.metrics, "update_reminder", time.Now(), &err)

	query := `
		UPDATE reminders SET
			patient_uid = $1, reminder_type = $2, reminder_frequency = $3,
			reminder_time_start = $4, reminder_time_end = $5,
			reminder_time_day = $6, reminder_time_date = $7,
			reminder_message = $8, note = $9, notification_push_type = $10,
			updated_at = $11
		WHERE id = $12
	`
	reminder.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		reminder.PatientUID,
		reminder.ReminderType,
		reminder.ReminderFrequency,
		reminder.ReminderTimeStart,
		reminder.ReminderTimeEnd,
		reminder.TimeDayJSON,
		reminder.TimeDateJSON,
		reminder.ReminderMessage,
		reminder.Note,
		reminder.NotificationPushType,
		reminder.UpdatedAt,
		reminder.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFound("reminder", sql.ErrNoRows)
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer observeOp(r.metrics, "delete_reminder", time.Now(), &err)

	query := `DELETE FROM reminders WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFound("reminder", sql.ErrNoRows)
	}
	return nil
}

func (r *reminderRepository) List(ctx context.Context) (_ []*model.Reminder, err error) {
	defer observeOp(r.metrics, "list_reminders", time.Now(), &err)

	query := `SELECT * FROM reminders ORDER BY created_at`
	var reminders []*model.Reminder
	if err = r.db.SelectContext(ctx, &reminders, query); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}
