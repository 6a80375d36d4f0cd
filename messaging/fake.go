package messaging

import "context"

// FakeClient is a test implementation of Client
type FakeClient struct {
	Counts map[string]int // keyed by rider id
	Err    error
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Counts: make(map[string]int),
	}
}

func (c *FakeClient) UnreadCount(ctx context.Context, riderID string) (int, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	return c.Counts[riderID], nil
}
