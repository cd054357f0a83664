// Package wfm is the HTTP transport to the employer's workforce-management
// API: weekly schedules, posted open shifts and the store directory.
//
// The client returns raw status codes and bodies; interpreting them is the
// schedule service's job.
package wfm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the employer API host.
	DefaultBaseURL = "https://api.target.com"
	// DefaultStoreURL is the store directory host.
	DefaultStoreURL = "https://redsky.target.com"
	// DefaultTimeout bounds every upstream request.
	DefaultTimeout = 30 * time.Second

	weeklySchedulesPath = "/wfm_schedules/v1/weekly_schedules"
	availableShiftsPath = "/wfm_available_shifts/v1/available_shifts"
	storeLocationPath   = "/redsky_aggregations/v1/web/store_location_v1"

	dateLayout = "2006-01-02"
)

// Probe dates are arbitrary; only the authorization outcome matters.
var (
	probeStart = time.Date(2020, 6, 23, 0, 0, 0, 0, time.UTC)
	probeEnd   = time.Date(2020, 6, 29, 0, 0, 0, 0, time.UTC)
)

// Config holds the employer API configuration.
type Config struct {
	BaseURL     string
	StoreURL    string
	APIKey      string
	EmployeeID  string
	StoreNumber string
	Timeout     time.Duration
	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64
}

// Response is a raw upstream reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client calls the employer API.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new employer API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.StoreURL == "" {
		config.StoreURL = DefaultStoreURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: limiter,
		logger:  slog.Default(),
	}
}

// FetchWeek retrieves the weekly schedule between start and end inclusive.
func (c *Client) FetchWeek(ctx context.Context, token *oauth2.Token, start, end time.Time) (*Response, error) {
	return c.get(ctx, token, c.weeklyScheduleURL(start, end))
}

// FetchAvailableShifts retrieves posted open shifts between start and end inclusive.
func (c *Client) FetchAvailableShifts(ctx context.Context, token *oauth2.Token, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("worker_id", c.config.EmployeeID)
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	q.Set("location_ids", c.config.StoreNumber)
	q.Set("key", c.config.APIKey)
	return c.get(ctx, token, c.config.BaseURL+availableShiftsPath+"?"+q.Encode())
}

// Probe issues a lightweight schedule request and returns its status code.
// 401 means the token was rejected; 400 means it authenticated but the
// request itself was refused, which is what a valid token yields here.
func (c *Client) Probe(ctx context.Context, token *oauth2.Token) (int, error) {
	resp, err := c.get(ctx, token, c.weeklyScheduleURL(probeStart, probeEnd))
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

func (c *Client) weeklyScheduleURL(start, end time.Time) string {
	q := url.Values{}
	q.Set("team_member_number", "00"+c.config.EmployeeID)
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	// The endpoint rejects requests without an (empty) location_id.
	q.Set("location_id", "")
	q.Set("key", c.config.APIKey)
	return c.config.BaseURL + weeklySchedulesPath + "?" + q.Encode()
}

func (c *Client) get(ctx context.Context, token *oauth2.Token, rawURL string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for upstream rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != nil && token.AccessToken != "" {
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed", "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	c.logger.Debug("upstream request completed",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
