package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
)

const (
	// DefaultBaseURL is where the backend listens unless configured otherwise
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is kept in the message
	maxErrorBody = 512

	todosPath        = "/todos"
	changeStatusPath = "/todos/change-status"
)

// Service is the set of remote operations the list state depends on.
// Every method performs exactly one round trip.
type Service interface {
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id int64) (*Todo, error)
	Create(ctx context.Context, draft Draft) (*Todo, error)
	Update(ctx context.Context, id int64, draft Draft) (*Todo, error)
	ToggleStatus(ctx context.Context, id int64) (*Todo, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) error
}

// Client represents an HTTP client for a todo backend
type Client struct {
	// BaseURL is the backend root without the /todos suffix (e.g., "http://localhost:3000")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request when non-empty
	UserAgent string
}

var _ Service = (*Client)(nil)

// NewClient creates a new client for the backend at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Ping checks that the backend answers GET /todos with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, todosPath, nil, nil, nil)
}

// List returns all todos in backend order.
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	if err := c.do(ctx, "list", http.MethodGet, todosPath, nil, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

// Get returns a single todo.
func (c *Client) Get(ctx context.Context, id int64) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, "get", http.MethodGet, itemPath(todosPath, id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create sends a new todo and returns it with its backend-assigned id.
// The draft is validated before any request is made.
func (c *Client) Create(ctx context.Context, draft Draft) (*Todo, error) {
	if err := draft.ValidateCreate(); err != nil {
		return nil, withOp(err, "create")
	}
	var t Todo
	if err := c.do(ctx, "create", http.MethodPost, todosPath, nil, draft, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update patches the given fields of a todo and returns the stored result.
func (c *Client) Update(ctx context.Context, id int64, draft Draft) (*Todo, error) {
	if err := draft.ValidateUpdate(); err != nil {
		return nil, withOp(err, "update")
	}
	var t Todo
	if err := c.do(ctx, "update", http.MethodPatch, itemPath(todosPath, id), nil, draft, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ToggleStatus asks the backend to flip the completion flag.
// The returned todo carries the flag as stored by the backend.
func (c *Client) ToggleStatus(ctx context.Context, id int64) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, "toggle-status", http.MethodPatch, itemPath(changeStatusPath, id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a single todo.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, itemPath(todosPath, id), nil, nil, nil)
}

// DeleteMany removes several todos in one request.
// The backend does not report per-id results, so a partial failure looks
// the same as a full success or a full failure.
func (c *Client) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return withOp(NewValidationError("no todos selected"), "delete-many")
	}
	// Built by hand so the commas stay literal, matching the backend contract.
	query := "ids=" + JoinIDs(ids)
	return c.do(ctx, "delete-many", http.MethodDelete, todosPath, &query, nil, nil)
}

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// do performs one request. body is JSON-encoded when non-nil, out is
// JSON-decoded from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, rawQuery *string, body, out interface{}) error {
	reqURL := c.BaseURL + path
	if rawQuery != nil {
		reqURL += "?" + *rawQuery
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return c.tag(NewParseError("failed to encode request body", err), op)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return c.tag(NewTransportError(fmt.Sprintf("failed to create %s request", method), err), op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.Debug("Request failed",
			zap.String("op", op),
			zap.String("url", redact(reqURL)),
			zap.Error(err),
		)
		return c.tag(NewTransportError(fmt.Sprintf("%s request failed", method), err), op)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogRequest("client", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		if text, ok := errorMessage(data); ok {
			msg = text
		} else if text := strings.TrimSpace(string(data)); text != "" {
			msg += ": " + text
		}
		return c.tag(NewStatusError(resp.StatusCode, msg), op)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.tag(NewTransportError("failed to read response body", err), op)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.tag(NewParseError("failed to parse JSON response", err), op)
	}
	return nil
}

// errorMessage extracts the message from a {"message": "..."} error body.
func errorMessage(data []byte) (string, bool) {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) != nil || body.Message == "" {
		return "", false
	}
	return body.Message, true
}

func (c *Client) tag(e *Error, op string) error {
	e.Op = op
	return e
}

func withOp(err error, op string) error {
	if e, ok := asError(err); ok {
		e.Op = op
	}
	return err
}

// redact drops any userinfo from a URL before it is logged.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
