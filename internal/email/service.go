package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

type Service interface {
	SendReminder(ctx context.Context, to string, n *model.ReminderNotification) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendReminder(ctx context.Context, to string, n *model.ReminderNotification) error {
	body := n.Body
	if n.Note != "" {
		body = body + "\n\n" + n.Note
	}
	return s.SendCustom(ctx, to, fmt.Sprintf("Reminder: %s", n.Title), body)
}

func (s *gomailService) SendCustom(_ context.Context, to, subject, content string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
