package pollclient

import (
	"context"
	"sync"
)

// FakeClient is a test implementation of Client. Each call consumes the
// next scripted response; the last one repeats.
type FakeClient struct {
	mu        sync.Mutex
	Responses []FakeResponse
	Calls     int
}

type FakeResponse struct {
	Result Result
	Err    error
}

func (c *FakeClient) Status(ctx context.Context, rideRequestID int64) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Responses) == 0 {
		return Result{}, ErrNotFound
	}
	i := min(c.Calls, len(c.Responses)-1)
	c.Calls++
	return c.Responses[i].Result, c.Responses[i].Err
}
