// Package pollclient follows a ride request from the rider's side: it polls
// the status endpoint at the advertised interval until a driver is assigned
// or the request is cancelled.
package pollclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/semanticallynull/mobility-backend/engagement"
)

var (
	ErrNotFound         = errors.New("ride request not found")
	ErrThrottled        = errors.New("polled too soon")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// ThrottledError carries the server's Retry-After. It matches ErrThrottled.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrThrottled, e.RetryAfter)
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}

// Result is one poll answer.
type Result struct {
	engagement.Resolution
	// Interval is the spacing the server asked for, never below
	// engagement.PollInterval.
	Interval time.Duration
}

// Client is an interface for the status endpoint
type Client interface {
	Status(ctx context.Context, rideRequestID int64) (Result, error)
}

// HTTPClient implements Client using real HTTP calls
type HTTPClient struct {
	baseURL    string
	header     http.Header
	httpClient *http.Client
}

// NewHTTPClient polls baseURL, sending header (typically Authorization) on
// every call.
func NewHTTPClient(baseURL string, header http.Header) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		header:  header.Clone(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) Status(ctx context.Context, rideRequestID int64) (Result, error) {
	u, err := url.JoinPath(c.baseURL, "ride-requests", strconv.FormatInt(rideRequestID, 10), "status")
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Result{}, ErrNotFound
	case http.StatusTooManyRequests:
		return Result{}, &ThrottledError{RetryAfter: seconds(resp.Header.Get("Retry-After"), engagement.PollInterval)}
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res.Resolution); err != nil {
		return Result{}, fmt.Errorf("decode status: %w", err)
	}
	res.Interval = max(seconds(resp.Header.Get("X-Poll-Interval"), engagement.PollInterval), engagement.PollInterval)
	return res, nil
}

// seconds parses a whole-seconds header value, falling back to def.
func seconds(v string, def time.Duration) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
