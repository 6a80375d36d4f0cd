package pollclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/mobility-backend/engagement"
)

func TestHTTPClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ride-requests/42/status", r.URL.Path)
		assert.Equal(t, "auth0|rider-1", r.Header.Get("X-Rider-ID"))
		w.Header().Set("X-Poll-Interval", "7")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"phase":"assigned","tripId":90,"status":"assigned"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, http.Header{"X-Rider-Id": {"auth0|rider-1"}})
	res, err := c.Status(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, engagement.PhaseAssigned, res.Phase)
	require.NotNil(t, res.TripID)
	assert.Equal(t, int64(90), *res.TripID)
	assert.Equal(t, 7*time.Second, res.Interval)
}

func TestHTTPClientIntervalFloor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Poll-Interval", "1")
		_, _ = w.Write([]byte(`{"phase":"pending","status":"pending"}`))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, nil).Status(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, engagement.PhasePending, res.Phase)
	assert.Equal(t, engagement.PollInterval, res.Interval)
}

func TestHTTPClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotFound) },
		},
		{
			name:   "throttled",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "3"},
			check: func(t *testing.T, err error) {
				var te *ThrottledError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, 3*time.Second, te.RetryAfter)
				assert.ErrorIs(t, err, ErrThrottled)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnexpectedStatus) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, nil).Status(context.Background(), 1)
			tt.check(t, err)
		})
	}
}
