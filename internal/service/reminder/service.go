package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/healthyfootprints/reminder-api/pkg/errors"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/repository"
	"github.com/healthyfootprints/reminder-api/pkg/validator"
)

type Service interface {
	CreateReminder(ctx context.Context, req *model.CreateReminderRequest) (*model.Reminder, error)
	GetReminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	UpdateReminder(ctx context.Context, id uuid.UUID, req *model.UpdateReminderRequest) (*model.Reminder, error)
	DeleteReminder(ctx context.Context, id uuid.UUID) error
	ListReminders(ctx context.Context) ([]*model.Reminder, error)
}

type service struct {
	repo      repository.ReminderRepository
	validator validator.Validator
}

func NewService(repo repository.ReminderRepository) Service {
	return &service{
		repo:      repo,
		validator: validator.New(),
	}
}

func (s *service) CreateReminder(ctx context.Context, req *model.CreateReminderRequest) (*model.Reminder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.NewBadRequest("invalid reminder", err)
	}
	if err := validateFrequencyFields(req); err != nil {
		return nil, apperrors.NewBadRequest("invalid reminder", err)
	}

	reminder := reminderFromRequest(req)
	reminder.ID = uuid.New()

	if err := marshalListFields(reminder); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal reminder fields: %w", err))
	}

	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

func (s *service) GetReminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalListFields(reminder); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal reminder fields: %w", err))
	}
	return reminder, nil
}

func (s *service) UpdateReminder(ctx context.Context, id uuid.UUID, req *model.UpdateReminderRequest) (*model.Reminder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.NewBadRequest("invalid reminder", err)
	}
	if err := validateFrequencyFields(req); err != nil {
		return nil, apperrors.NewBadRequest("invalid reminder", err)
	}

	reminder := reminderFromRequest(req)
	reminder.ID = id

	if err := marshalListFields(reminder); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal reminder fields: %w", err))
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *service) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListReminders(ctx context.Context) ([]*model.Reminder, error) {
	reminders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range reminders {
		if err := unmarshalListFields(r); err != nil {
			return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal reminder fields: %w", err))
		}
	}
	return reminders, nil
}

// validateFrequencyFields checks that the field the frequency depends on is
// present: Weekly needs at least one weekday, Monthly and Day need a date.
func validateFrequencyFields(req *model.CreateReminderRequest) error {
	switch req.ReminderFrequency {
	case model.FrequencyWeekly:
		if len(req.ReminderTimeDay) == 0 {
			return fmt.Errorf("reminderTimeDay is required for Weekly reminders")
		}
	case model.FrequencyMonthly, model.FrequencyDay:
		if len(req.ReminderTimeDate) == 0 {
			return fmt.Errorf("reminderTimeDate is required for %s reminders", req.ReminderFrequency)
		}
	}
	return nil
}

func reminderFromRequest(req *model.CreateReminderRequest) *model.Reminder {
	return &model.Reminder{
		PatientUID:           req.PatientUID,
		ReminderType:         req.ReminderType,
		ReminderFrequency:    req.ReminderFrequency,
		ReminderTimeStart:    req.ReminderTimeStart,
		ReminderTimeEnd:      req.ReminderTimeEnd,
		ReminderTimeDay:      req.ReminderTimeDay,
		ReminderTimeDate:     req.ReminderTimeDate,
		ReminderMessage:      req.ReminderMessage,
		Note:                 req.Note,
		NotificationPushType: req.NotificationPushType,
	}
}

func marshalListFields(r *model.Reminder) error {
	day, err := json.Marshal(r.ReminderTimeDay)
	if err != nil {
		return err
	}
	date, err := json.Marshal(r.ReminderTimeDate)
	if err != nil {
		return err
	}
	r.TimeDayJSON = day
	r.TimeDateJSON = date
	return nil
}

func unmarshalListFields(r *model.Reminder) error {
	if len(r.TimeDayJSON) > 0 {
		if err := json.Unmarshal(r.TimeDayJSON, &r.ReminderTimeDay); err != nil {
			return err
		}
	}
	if len(r.TimeDateJSON) > 0 {
		if err := json.Unmarshal(r.TimeDateJSON, &r.ReminderTimeDate); err != nil {
			return err
		}
	}
	return nil
}
