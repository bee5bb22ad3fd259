// Package client is a typed HTTP client for the task API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/tasks"
)

// Version is sent as X-App-Version.
const Version = "0.1.0"

var (
	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when the server rejects the request body (400).
	ErrValidation = errors.New("validation failed")

	// ErrNetwork wraps transport failures: connection refused, reset, bad response body.
	ErrNetwork = errors.New("network error")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match APIError against ErrNotFound and ErrValidation.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// Health is the body of GET /health.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Update is the body of PUT /api/tasks/{id}.
type Update struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Client talks to one task API server.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	SessionID string
}

// New creates a client with a fresh session id.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:      &http.Client{CheckRedirect: keepMethod},
		SessionID: uuid.NewString(),
	}
}

// keepMethod stops redirects of non-GET requests; net/http would replay them as GET.
func keepMethod(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if via[0].Method != http.MethodGet && via[0].Method != http.MethodHead {
		return http.ErrUseLastResponse
	}
	return nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

// List returns all tasks.
func (c *Client) List(ctx context.Context) ([]tasks.Task, error) {
	var body struct {
		Tasks []tasks.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &body); err != nil {
		return nil, err
	}
	return body.Tasks, nil
}

// Get returns one task.
func (c *Client) Get(ctx context.Context, id int) (tasks.Task, error) {
	var t tasks.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t)
	return t, err
}

// Create adds a task and returns the server's record.
func (c *Client) Create(ctx context.Context, title, description string) (tasks.Task, error) {
	in := map[string]string{"title": title}
	if description != "" {
		in["description"] = description
	}
	var t tasks.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", in, &t)
	return t, err
}

// Update replaces title, description and completed of a task.
func (c *Client) Update(ctx context.Context, id int, u Update) (tasks.Task, error) {
	var t tasks.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), u, &t)
	return t, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// Toggle flips the completed flag of a task.
func (c *Client) Toggle(ctx context.Context, id int) (tasks.Task, error) {
	var t tasks.Task
	err := c.do(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, &t)
	return t, err
}

// AppOpened reports the start of a client session.
func (c *Client) AppOpened(ctx context.Context, coldStart bool) error {
	in := map[string]any{"cold_start": coldStart, "from": "tui"}
	return c.do(ctx, http.MethodPost, "/api/events/app_opened", in, nil)
}

func taskPath(id int) string {
	return "/api/tasks/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	base := strings.TrimRight(c.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Platform", "tui")
	req.Header.Set("X-App-Version", Version)
	if c.SessionID != "" {
		req.Header.Set("X-Session-Id", c.SessionID)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{CheckRedirect: keepMethod}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrNetwork, method, path, err)
	}
	return nil
}
