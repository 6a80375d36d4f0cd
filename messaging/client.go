// Package messaging talks to the messaging service for a rider's unread
// notification count. The service is not authoritative for anything the
// engagement core decides, so callers degrade on ErrUnavailable.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

var ErrUnavailable = errors.New("messaging service unavailable")

// Client is an interface for messaging service operations
type Client interface {
	UnreadCount(ctx context.Context, riderID string) (int, error)
}

// HTTPClient implements Client using real HTTP calls
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

type unreadResponse struct {
	Unread int `json:"unread"`
}

func (c *HTTPClient) UnreadCount(ctx context.Context, riderID string) (int, error) {
	u := fmt.Sprintf("%s/riders/%s/notifications/unread-count", c.baseURL, url.PathEscape(riderID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body unreadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return body.Unread, nil
}
