package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Reminder, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
}
