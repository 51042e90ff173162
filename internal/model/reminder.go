package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reminder frequency kinds as they appear on the wire.
const (
	FrequencyDaily   = "Daily"
	FrequencyWeekly  = "Weekly"
	FrequencyMonthly = "Monthly"
	FrequencyDay     = "Day"
)

const isoDateLayout = "2006-01-02"

// StringList is a JSON field that accepts either a bare string or an
// array of strings. The legacy backend stored reminderTimeDate both ways.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// Reminder is a recurrence rule plus message payload. Field names follow
// the wire schema consumed by the notifier agent.
type Reminder struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	PatientUID           string     `json:"patientUid" db:"patient_uid"`
	ReminderType         string     `json:"reminderType" db:"reminder_type"`
	ReminderFrequency    string     `json:"reminderFrequency" db:"reminder_frequency"`
	ReminderTimeStart    string     `json:"reminderTimeStart" db:"reminder_time_start"`
	ReminderTimeEnd      string     `json:"reminderTimeEnd" db:"reminder_time_end"`
	ReminderTimeDay      StringList `json:"reminderTimeDay" db:"-"`
	ReminderTimeDate     StringList `json:"reminderTimeDate" db:"-"`
	ReminderMessage      string     `json:"reminderMessage" db:"reminder_message"`
	Note                 string     `json:"note,omitempty" db:"note"`
	NotificationPushType string     `json:"notificationPushType" db:"notification_push_type"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`

	// JSONB column images of the list fields, managed by the service layer.
	TimeDayJSON  []byte `json:"-" db:"reminder_time_day"`
	TimeDateJSON []byte `json:"-" db:"reminder_time_date"`
}

// RecurrenceKind discriminates the compiled recurrence variant.
type RecurrenceKind int

const (
	// RecurrenceNone never fires; unrecognized frequencies compile to it.
	RecurrenceNone RecurrenceKind = iota
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthly
	RecurrenceOnDate
)

// Recurrence is the compiled form of the frequency rule. Exactly one of
// Days, DayOfMonth and Dates is meaningful, selected by Kind.
type Recurrence struct {
	Kind       RecurrenceKind
	Days       map[string]struct{}
	DayOfMonth int
	Dates      map[string]struct{}
}

// Recurrence compiles the string-typed frequency fields into a tagged
// variant. Called once per snapshot load so match checks never re-parse.
func (r *Reminder) Recurrence() Recurrence {
	switch r.ReminderFrequency {
	case FrequencyDaily:
		return Recurrence{Kind: RecurrenceDaily}

	case FrequencyWeekly:
		days := make(map[string]struct{}, len(r.ReminderTimeDay))
		for _, d := range r.ReminderTimeDay {
			days[d] = struct{}{}
		}
		return Recurrence{Kind: RecurrenceWeekly, Days: days}

	case FrequencyMonthly:
		if len(r.ReminderTimeDate) == 0 {
			return Recurrence{Kind: RecurrenceNone}
		}
		day, ok := parseDayOfMonth(r.ReminderTimeDate[0])
		if !ok {
			return Recurrence{Kind: RecurrenceNone}
		}
		return Recurrence{Kind: RecurrenceMonthly, DayOfMonth: day}

	case FrequencyDay:
		dates := make(map[string]struct{}, len(r.ReminderTimeDate))
		for _, d := range r.ReminderTimeDate {
			dates[d] = struct{}{}
		}
		return Recurrence{Kind: RecurrenceOnDate, Dates: dates}

	default:
		return Recurrence{Kind: RecurrenceNone}
	}
}

// Matches reports whether the recurrence rule holds on now's date. Time of
// day is not considered here; the caller compares reminderTimeStart against
// the current minute separately.
func (rec Recurrence) Matches(now time.Time) bool {
	switch rec.Kind {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		_, ok := rec.Days[now.Weekday().String()]
		return ok
	case RecurrenceMonthly:
		// Only day-of-month is compared; a Monthly reminder re-fires every
		// month regardless of the month or year it was entered with.
		return now.Day() == rec.DayOfMonth
	case RecurrenceOnDate:
		_, ok := rec.Dates[now.Format(isoDateLayout)]
		return ok
	default:
		return false
	}
}

func parseDayOfMonth(raw string) (int, bool) {
	for _, layout := range []string{isoDateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Day(), true
		}
	}
	return 0, false
}

// CreateReminderRequest is the payload for creating a reminder.
type CreateReminderRequest struct {
	PatientUID           string     `json:"patientUid"`
	ReminderType         string     `json:"reminderType" validate:"required"`
	ReminderFrequency    string     `json:"reminderFrequency" validate:"required,oneof=Daily Weekly Monthly Day"`
	ReminderTimeStart    string     `json:"reminderTimeStart" validate:"required"`
	ReminderTimeEnd      string     `json:"reminderTimeEnd"`
	ReminderTimeDay      StringList `json:"reminderTimeDay"`
	ReminderTimeDate     StringList `json:"reminderTimeDate"`
	ReminderMessage      string     `json:"reminderMessage" validate:"required"`
	Note                 string     `json:"note"`
	NotificationPushType string     `json:"notificationPushType" validate:"required"`
}

// UpdateReminderRequest mirrors the create payload; all fields are replaced.
type UpdateReminderRequest = CreateReminderRequest
