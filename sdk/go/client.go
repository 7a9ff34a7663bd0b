package axissdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Axis HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Artifact is the proof link attached to a row.
type Artifact struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// AuditEvent is one change recorded on a row.
type AuditEvent struct {
	TS    string `json:"ts"`
	Event string `json:"event"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Meta  string `json:"meta,omitempty"`
}

// Row represents one commitment on the timeline.
type Row struct {
	ID              string       `json:"id"`
	ProjectKey      string       `json:"projectKey"`
	Feature         string       `json:"feature"`
	StartWeek       string       `json:"startWeek"`
	EndWeek         string       `json:"endWeek"`
	Status          string       `json:"status"`
	LinkedOutcomeID string       `json:"linkedOutcomeId"`
	Artifact        Artifact     `json:"artifact"`
	AuditTrail      []AuditEvent `json:"auditTrail"`
}

type rowEnvelope struct {
	Row          Row      `json:"row"`
	NextStatuses []string `json:"next_statuses"`
}

// Event is one change-log entry.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Payload    string `json:"payload_json"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateRow creates a commitment row in planned status.
func (c *Client) CreateRow(ctx context.Context, projectKey, feature, startWeek, endWeek string) (Row, error) {
	body := map[string]any{
		"projectKey": projectKey,
		"feature":    feature,
		"startWeek":  startWeek,
		"endWeek":    endWeek,
	}
	var resp rowEnvelope
	err := c.do(ctx, http.MethodPost, "gantt/rows", body, &resp)
	return resp.Row, err
}

// Rows lists commitment rows, optionally filtered by project key.
func (c *Client) Rows(ctx context.Context, projectKey string) ([]Row, error) {
	endpoint := "gantt/rows"
	if projectKey != "" {
		endpoint += "?project=" + url.QueryEscape(projectKey)
	}
	var resp struct {
		Rows []rowEnvelope `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		out = append(out, r.Row)
	}
	return out, nil
}

// SetStatus transitions a row.
func (c *Client) SetStatus(ctx context.Context, rowID, status, note string) (Row, error) {
	body := map[string]any{"status": status}
	if note != "" {
		body["note"] = note
	}
	var resp rowEnvelope
	endpoint := fmt.Sprintf("gantt/rows/%s/status", url.PathEscape(rowID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp.Row, err
}

// SetArtifact attaches proof-of-completion to a row.
func (c *Client) SetArtifact(ctx context.Context, rowID, artifactType, artifactURL string) (Row, error) {
	body := map[string]any{"type": artifactType, "url": artifactURL}
	var resp rowEnvelope
	endpoint := fmt.Sprintf("gantt/rows/%s/artifact", url.PathEscape(rowID))
	err := c.do(ctx, http.MethodPut, endpoint, body, &resp)
	return resp.Row, err
}

// DeleteRow removes a row.
func (c *Client) DeleteRow(ctx context.Context, rowID string) error {
	endpoint := fmt.Sprintf("gantt/rows/%s", url.PathEscape(rowID))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Audit returns a row's audit trail, most recent first.
func (c *Client) Audit(ctx context.Context, rowID string) ([]AuditEvent, error) {
	var resp struct {
		Entries []AuditEvent `json:"entries"`
	}
	endpoint := fmt.Sprintf("gantt/rows/%s/audit", url.PathEscape(rowID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Entries, err
}

// Dashboard returns the one-screen dashboard view as raw JSON.
func (c *Client) Dashboard(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	err := c.do(ctx, http.MethodGet, "views/dashboard", nil, &resp)
	return resp, err
}

// Events returns recent change-log entries.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/api/v1/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
