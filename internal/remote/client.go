// Package remote is a thin client for the optional usage-stats service.
// The local store never depends on it: mirroring is strictly best-effort
// and a failed call leaves local data authoritative.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the remote profile/stats service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Profile is the per-user document kept by the service.
type Profile struct {
	UserID            string `json:"userId"`
	TotalFocusMinutes int    `json:"totalFocusMinutes"`
	TotalSessions     int    `json:"totalSessions"`
	LastActive        string `json:"lastActive,omitempty"`
}

// FocusSession is one mirrored session completion.
type FocusSession struct {
	UserID       string `json:"userId"`
	FocusMinutes int    `json:"focusMinutes"`
	Kind         string `json:"kind"`
	Date         string `json:"date"` // YYYY-MM-DD
}

// SaveProfile creates or updates the user's profile document.
func (c *Client) SaveProfile(ctx context.Context, p Profile) error {
	return c.post(ctx, "/users/"+url.PathEscape(p.UserID), p, nil)
}

// SaveFocusSession records one completed focus interval and bumps the
// user's running totals.
func (c *Client) SaveFocusSession(ctx context.Context, s FocusSession) error {
	return c.post(ctx, "/sessions", s, nil)
}

// GetStats fetches the user's profile totals.
func (c *Client) GetStats(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote: unexpected status %s", resp.Status)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote: unexpected status %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// LoadUserID reads the stable anonymous user id from path, generating and
// persisting a fresh one on first use.
func LoadUserID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := "user-" + uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("persisting user id: %w", err)
	}
	return id, nil
}
