package model

import "time"

// ReminderNotification is the payload handed to notification sinks when a
// reminder fires. Title is the reminder's type label, Body its message.
type ReminderNotification struct {
	ReminderID string    `json:"reminder_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Note       string    `json:"note,omitempty"`
	PatientUID string    `json:"patient_uid,omitempty"`
	FiredAt    time.Time `json:"fired_at"`
}

// NotificationFromReminder builds the sink payload for a fired reminder.
func NotificationFromReminder(r *Reminder, firedAt time.Time) *ReminderNotification {
	return &ReminderNotification{
		ReminderID: r.ID.String(),
		Title:      r.ReminderType,
		Body:       r.ReminderMessage,
		Note:       r.Note,
		PatientUID: r.PatientUID,
		FiredAt:    firedAt,
	}
}
