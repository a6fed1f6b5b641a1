// Package client is a Go consumer of the ticketing API. It mirrors the
// browser client's behavior: bearer-token requests, careful retry rules
// (idempotent GETs only) and user-presentable error messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type ErrorCategory string

const (
	CategoryNetwork    ErrorCategory = "network"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryPermission ErrorCategory = "permission"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryServer     ErrorCategory = "server"
)

// APIError carries the server's message when one was sent; Message always
// holds something fit to show a user.
type APIError struct {
	Status   int
	Category ErrorCategory
	Message  string
	Fields   []FieldError
}

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%s, status %d): %s", e.Category, e.Status, e.Message)
}

var fallbackMessages = map[ErrorCategory]string{
	CategoryNetwork:    "Could not reach the server. Check your connection.",
	CategoryValidation: "Some fields are invalid. Please review the form.",
	CategoryAuth:       "Please log in to continue.",
	CategoryPermission: "You do not have permission to do that.",
	CategoryNotFound:   "The requested resource was not found.",
	CategoryServer:     "Something went wrong. Please try again later.",
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	maxRetries int
	retryBase  time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithRetryBase(d time.Duration) Option {
	return func(c *Client) { c.retryBase = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		retryBase:  200 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) SetToken(token string) { c.token = token }

// Event is the wire shape served by the API.
type Event struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CategoryID     int      `json:"category_id"`
	VenueID        int      `json:"venue_id"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	Status         string   `json:"status"`
	OrganizerID    string   `json:"organizer_id"`
	Tags           []string `json:"tags"`
	Images         []string `json:"images"`
}

type EventsPage struct {
	Events     []Event `json:"events"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

type ListOptions struct {
	CategoryID  int
	VenueID     int
	Status      string
	OrganizerID string
	Query       string
	From        string
	To          string
	Limit       int
	Cursor      string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}

	if o.CategoryID > 0 {
		q.Set("category_id", fmt.Sprint(o.CategoryID))
	}
	if o.VenueID > 0 {
		q.Set("venue_id", fmt.Sprint(o.VenueID))
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.OrganizerID != "" {
		q.Set("organizer_id", o.OrganizerID)
	}
	if o.Query != "" {
		q.Set("q", o.Query)
	}
	if o.From != "" {
		q.Set("from", o.From)
	}
	if o.To != "" {
		q.Set("to", o.To)
	}
	if o.Limit > 0 {
		q.Set("limit", fmt.Sprint(o.Limit))
	}
	if o.Cursor != "" {
		q.Set("cursor", o.Cursor)
	}

	return q
}

func (c *Client) ListEvents(ctx context.Context, opts ListOptions) (EventsPage, error) {
	path := "/events"

	if q := opts.query().Encode(); q != "" {
		path += "?" + q
	}

	var page EventsPage

	if err := c.getJSON(ctx, path, &page); err != nil {
		return EventsPage{}, err
	}

	return page, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (Event, error) {
	var e Event

	if err := c.getJSON(ctx, "/events/"+url.PathEscape(id), &e); err != nil {
		return Event{}, err
	}

	return e, nil
}

func (c *Client) MyEvents(ctx context.Context) ([]Event, error) {
	var page EventsPage

	if err := c.getJSON(ctx, "/events/my/events", &page); err != nil {
		return nil, err
	}

	return page.Events, nil
}

// CreateEvent submits the draft as a multipart form, matching the API's
// form-encoded create endpoint. Image uploads are out of scope here.
func (c *Client) CreateEvent(ctx context.Context, draft EventDraft) (Event, error) {
	if errs := draft.Validate(); len(errs) > 0 {
		return Event{}, &APIError{
			Status:   0,
			Category: CategoryValidation,
			Message:  fallbackMessages[CategoryValidation],
			Fields:   errs,
		}
	}

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	for field, value := range draft.formFields() {
		if err := w.WriteField(field, value); err != nil {
			return Event{}, err
		}
	}

	if err := w.Close(); err != nil {
		return Event{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", &buf)

	if err != nil {
		return Event{}, err
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	var created Event

	if err := c.doOnce(req, &created); err != nil {
		return Event{}, err
	}

	return created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, changes map[string]any) (Event, error) {
	body, err := json.Marshal(changes)

	if err != nil {
		return Event{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/events/"+url.PathEscape(id), bytes.NewReader(body))

	if err != nil {
		return Event{}, err
	}

	req.Header.Set("Content-Type", "application/json")

	var updated Event

	if err := c.doOnce(req, &updated); err != nil {
		return Event{}, err
	}

	return updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/events/"+url.PathEscape(id), nil)

	if err != nil {
		return err
	}

	return c.doOnce(req, nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []FieldError    `json:"errors"`
}

// getJSON retries transient failures; only GETs ever go through here.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)

		if err != nil {
			return err
		}

		err = c.doOnce(req, out)

		if err == nil {
			return nil
		}

		lastErr = err

		if !retryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) retryDelay(attempt int) time.Duration {
	base := c.retryBase

	if base <= 0 {
		return 0
	}

	d := base * time.Duration(1<<(attempt-1))

	return d + time.Duration(rand.Int63n(int64(base)))
}

// retryable: network failures and 5xx. Client errors never retry.
func retryable(err error) bool {
	var apiErr *APIError

	if errors.As(err, &apiErr) {
		return apiErr.Category == CategoryNetwork || apiErr.Category == CategoryServer
	}

	return false
}

func (c *Client) doOnce(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return &APIError{
			Status:   0,
			Category: CategoryNetwork,
			Message:  fallbackMessages[CategoryNetwork],
		}
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	if err != nil {
		return &APIError{
			Status:   0,
			Category: CategoryNetwork,
			Message:  fallbackMessages[CategoryNetwork],
		}
	}

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	var env envelope

	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	if len(env.Data) == 0 {
		return nil
	}

	return json.Unmarshal(env.Data, out)
}

func errorFromResponse(status int, raw []byte) *APIError {
	category := categoryForStatus(status)

	apiErr := &APIError{
		Status:   status,
		Category: category,
		Message:  fallbackMessages[category],
	}

	var env envelope

	if err := json.Unmarshal(raw, &env); err == nil {
		// the server's message wins when present
		if env.Message != "" {
			apiErr.Message = env.Message
		}

		apiErr.Fields = env.Errors
	}

	return apiErr
}

func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized:
		return CategoryAuth
	case status == http.StatusForbidden:
		return CategoryPermission
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status >= 500:
		return CategoryServer
	default:
		return CategoryValidation
	}
}
