package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/clipkeep/clipkeep/internal/domain"
)

// Client talks to the control API of a running watcher.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the watcher at addr.
func NewClient(addr string) *Client {
	return &Client{
		base: "http://" + addr,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// List fetches the history, newest first.
func (c *Client) List() ([]domain.Entry, error) {
	resp, err := c.http.Get(c.base + "/api/history")
	if err != nil {
		return nil, fmt.Errorf("contact watcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var entries []domain.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

// Restore asks the watcher to copy the entry back onto the clipboard.
func (c *Client) Restore(id string) error {
	resp, err := c.http.Post(c.base+"/api/history/"+url.PathEscape(id)+"/restore", "", nil)
	if err != nil {
		return fmt.Errorf("contact watcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp)
	}
	return nil
}

// Clear asks the watcher to delete all history entries.
func (c *Client) Clear() error {
	resp, err := c.http.Post(c.base+"/api/clear", "", nil)
	if err != nil {
		return fmt.Errorf("contact watcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp)
	}
	return nil
}

// Healthz reports whether a watcher answers at the configured address.
func (c *Client) Healthz() error {
	resp, err := c.http.Get(c.base + "/healthz")
	if err != nil {
		return fmt.Errorf("contact watcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

// statusError turns a non-success response into an error, preferring
// the message the API sent along.
func (c *Client) statusError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("watcher: %s", apiErr.Error)
	}
	return fmt.Errorf("watcher returned %s", resp.Status)
}
