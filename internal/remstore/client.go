package remstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	authhandler "github.com/healthyfootprints/reminder-api/internal/handler/auth"
	"github.com/healthyfootprints/reminder-api/internal/model"
)

// FetchError classifies a failed reminder collection fetch: either the
// request never completed (Err set) or the store answered non-2xx (Status).
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("reminder fetch failed: status %d", e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client reads the reminder collection from the store API using the
// operator's session cookie. It never retries; the caller's next scheduled
// tick is the retry.
type Client struct {
	baseURL string
	session string
	http    *http.Client
}

func NewClient(baseURL, sessionCookie string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		session: sessionCookie,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchReminders requests the full collection; no pagination is consumed.
func (c *Client) FetchReminders(ctx context.Context) ([]*model.Reminder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/reminders/", nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: authhandler.SessionCookie, Value: c.session})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var reminders []*model.Reminder
	if err := json.NewDecoder(resp.Body).Decode(&reminders); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decoding reminders: %w", err)}
	}
	return reminders, nil
}
