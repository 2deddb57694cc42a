package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// idempotencyHeader mirrors the header the service reads on event creation.
const idempotencyHeader = "Idempotency-Key"

// Client talks to a running SIMONEV service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type duplicateResponse struct {
	Status string       `json:"status"`
	Event  *model.Event `json:"event,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body. Statuses outside
// want are turned into ErrStatus carrying the service's message.
func readResponseBody(resp *http.Response, want ...int) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	for _, s := range want {
		if resp.StatusCode == s {
			return data, nil
		}
	}
	var e apiError
	if json.Unmarshal(data, &e) == nil && e.Message != "" {
		return nil, fmt.Errorf("%w: %d %s: %s", ErrStatus, resp.StatusCode, e.Code, e.Message)
	}
	return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil, nil)
	if err != nil {
		return err
	}
	data, err := readResponseBody(resp, http.StatusOK)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func categoryQuery(f model.Filter) string {
	if f.Category == "" {
		return ""
	}
	return "category=" + url.QueryEscape(string(f.Category))
}

func withQuery(path string, parts ...string) string {
	q := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			q = append(q, p)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + strings.Join(q, "&")
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	_, err = readResponseBody(resp, http.StatusOK)
	return err
}

// Events lists the events.
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	return out, c.getJSON(ctx, "/api/events", &out)
}

// CreateEvent creates an event. A non-empty key makes the request idempotent;
// duplicate reports whether the service had already seen the key.
func (c *Client) CreateEvent(ctx context.Context, key string, in model.EventInput) (ev model.Event, duplicate bool, err error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.Event{}, false, fmt.Errorf("failed to marshal request body: %w", err)
	}
	header := http.Header{}
	if key != "" {
		header.Set(idempotencyHeader, key)
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/events", "application/json", bytes.NewReader(body), header)
	if err != nil {
		return model.Event{}, false, err
	}
	status := resp.StatusCode
	data, err := readResponseBody(resp, http.StatusCreated, http.StatusOK)
	if err != nil {
		return model.Event{}, false, err
	}
	if status == http.StatusOK {
		var dup duplicateResponse
		if err := json.Unmarshal(data, &dup); err != nil {
			return model.Event{}, true, err
		}
		if dup.Event != nil {
			ev = *dup.Event
		}
		return ev, true, nil
	}
	return ev, false, json.Unmarshal(data, &ev)
}

// UploadRoster posts a roster as JSON.
func (c *Client) UploadRoster(ctx context.Context, eventID string, up types.RosterUpload) (types.UploadResult, error) {
	body, err := json.Marshal(up)
	if err != nil {
		return types.UploadResult{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(eventID)+"/rosters", "application/json", bytes.NewReader(body), nil)
	if err != nil {
		return types.UploadResult{}, err
	}
	return decodeUpload(resp)
}

// UploadFile posts a roster file (.txt, .csv or .xlsx) as multipart form data.
func (c *Client) UploadFile(ctx context.Context, eventID string, kind model.DataKind, filename string, data []byte) (types.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("kind", string(kind)); err != nil {
		return types.UploadResult{}, err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return types.UploadResult{}, err
	}
	if _, err := part.Write(data); err != nil {
		return types.UploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return types.UploadResult{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(eventID)+"/rosters", mw.FormDataContentType(), &buf, nil)
	if err != nil {
		return types.UploadResult{}, err
	}
	return decodeUpload(resp)
}

func decodeUpload(resp *http.Response) (types.UploadResult, error) {
	data, err := readResponseBody(resp, http.StatusOK)
	if err != nil {
		return types.UploadResult{}, err
	}
	var res types.UploadResult
	return res, json.Unmarshal(data, &res)
}

// Schools lists schools passing f with their tiers.
func (c *Client) Schools(ctx context.Context, f model.Filter) ([]types.SchoolView, error) {
	var out []types.SchoolView
	return out, c.getJSON(ctx, withQuery("/api/schools", categoryQuery(f)), &out)
}

// Rankings fetches the ranking for f. A limit of 0 fetches every school.
func (c *Client) Rankings(ctx context.Context, f model.Filter, limit int) ([]types.RankingEntry, error) {
	lim := ""
	if limit > 0 {
		lim = "limit=" + strconv.Itoa(limit)
	}
	var out []types.RankingEntry
	return out, c.getJSON(ctx, withQuery("/api/rankings", categoryQuery(f), lim), &out)
}

// Dashboard fetches the dashboard stats for f.
func (c *Client) Dashboard(ctx context.Context, f model.Filter) (types.DashboardStats, error) {
	var out types.DashboardStats
	return out, c.getJSON(ctx, withQuery("/api/dashboard", categoryQuery(f)), &out)
}

// Summary fetches the narrative summary. The service answers with plain text.
func (c *Client) Summary(ctx context.Context, f model.Filter) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, withQuery("/api/summary", categoryQuery(f)), "", nil, nil)
	if err != nil {
		return "", err
	}
	data, err := readResponseBody(resp, http.StatusOK)
	return string(data), err
}

// Backup downloads the snapshot document.
func (c *Client) Backup(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/backup", "", nil, nil)
	if err != nil {
		return nil, err
	}
	return readResponseBody(resp, http.StatusOK)
}

// Restore uploads a snapshot document.
func (c *Client) Restore(ctx context.Context, data []byte) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/restore", "application/json", bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	_, err = readResponseBody(resp, http.StatusOK)
	return err
}
