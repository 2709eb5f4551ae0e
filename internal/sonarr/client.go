package sonarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 100

	// maxQueuePages bounds paging in case the server keeps reporting a
	// larger total than it returns.
	maxQueuePages = 1000
)

// Config holds what the client needs to reach Sonarr
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page size must not be negative")
	}
	return nil
}

// GetHeaders returns the headers sent with every request
func (c *Config) GetHeaders() map[string]string {
	return map[string]string{
		"X-Api-Key":    c.APIKey,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}

// Client talks to the Sonarr v3 REST API.
type Client struct {
	config     Config
	httpClient *http.Client
	baseURL    string
}

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.PageSize == 0 {
		config.PageSize = DefaultPageSize
	}

	return &Client{
		config:  config,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SystemStatus fetches /api/v3/system/status. It is used as the startup
// connectivity and credential check.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.makeRequest(ctx, http.MethodGet, "/api/v3/system/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Queue fetches the whole download queue, following pages until the
// reported total is collected. A record that shifts onto a later page while
// paging is returned only once.
func (c *Client) Queue(ctx context.Context) ([]QueueRecord, error) {
	var records []QueueRecord
	seen := make(map[int]struct{})
	fetched := 0

	for page := 1; page <= maxQueuePages; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(c.config.PageSize))

		var qp QueuePage
		if err := c.makeRequest(ctx, http.MethodGet, "/api/v3/queue", query, &qp); err != nil {
			if sErr, ok := err.(*Error); ok {
				sErr.WithContext("page", page)
			}
			return nil, err
		}

		for _, rec := range qp.Records {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			records = append(records, rec)
		}

		fetched += len(qp.Records)
		if len(qp.Records) == 0 || fetched >= qp.TotalRecords {
			break
		}
	}

	return records, nil
}

// Grab forces a queued item out of its delay via
// POST /api/v3/queue/grab/{id}. Any 2xx response counts as success.
func (c *Client) Grab(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/v3/queue/grab/%d", id)
	if err := c.makeRequest(ctx, http.MethodPost, path, nil, nil); err != nil {
		if sErr, ok := err.(*Error); ok {
			sErr.WithContext("id", id)
		}
		return err
	}
	return nil
}

// makeRequest sends one request and decodes a JSON response into out when
// out is non-nil.
func (c *Client) makeRequest(ctx context.Context, method, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return NewErrorWithCause(ErrUnknown, "failed to create request", err)
	}

	for key, value := range c.config.GetHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return NewErrorWithCause(ErrTransport, fmt.Sprintf("%s %s timed out", method, path), err)
		}
		return NewErrorWithCause(ErrTransport, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewErrorWithCause(ErrTransport, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(fmt.Sprintf("%s %s returned %s", method, path, resp.Status), resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		e := NewErrorWithCause(ErrDecode, fmt.Sprintf("failed to parse %s response", path), err)
		e.Body = truncate(string(body), maxBodyLen)
		return e
	}
	return nil
}
