package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/healthyfootprints/reminder-api/internal/model"
)

// Permission is the system notification capability state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// PermissionAPI grants or denies the right to raise system notifications.
type PermissionAPI interface {
	Request(ctx context.Context) (Permission, error)
}

// Pusher delivers a notification through the system-level channel.
type Pusher interface {
	Push(ctx context.Context, n *model.ReminderNotification) error
}

// SystemSink raises OS-level notifications through a push gateway, gated by
// a permission state. While the state is default, each call requests
// permission and delivers only if granted; once denied the sink is a
// permanent silent no-op and never prompts again.
type SystemSink struct {
	perms  PermissionAPI
	pusher Pusher

	mu    sync.Mutex
	state Permission
}

func NewSystemSink(perms PermissionAPI, pusher Pusher) *SystemSink {
	return &SystemSink{
		perms:  perms,
		pusher: pusher,
		state:  PermissionDefault,
	}
}

func (s *SystemSink) Name() string {
	return "system"
}

func (s *SystemSink) Notify(ctx context.Context, n *model.ReminderNotification) error {
	switch s.currentState() {
	case PermissionGranted:
		return s.pusher.Push(ctx, n)
	case PermissionDenied:
		return nil
	}

	granted, err := s.requestPermission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		return nil
	}
	return s.pusher.Push(ctx, n)
}

func (s *SystemSink) currentState() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SystemSink) requestPermission(ctx context.Context) (bool, error) {
	perm, err := s.perms.Request(ctx)
	if err != nil {
		// Leave the state undetermined; the next call will ask again.
		return false, err
	}

	s.mu.Lock()
	if perm == PermissionGranted || perm == PermissionDenied {
		s.state = perm
	}
	s.mu.Unlock()

	return perm == PermissionGranted, nil
}

// GatewayClient talks to the push gateway: it registers the agent as a
// subscriber (permission request) and posts notifications.
type GatewayClient struct {
	baseURL string
	http    *http.Client
}

func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *GatewayClient) Request(ctx context.Context) (Permission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/subscribe", nil)
	if err != nil {
		return PermissionDefault, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return PermissionDefault, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return PermissionGranted, nil
	case resp.StatusCode == http.StatusForbidden:
		return PermissionDenied, nil
	default:
		return PermissionDefault, fmt.Errorf("push gateway subscribe: status %d", resp.StatusCode)
	}
}

func (c *GatewayClient) Push(ctx context.Context, n *model.ReminderNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway notify: status %d", resp.StatusCode)
	}
	return nil
}
