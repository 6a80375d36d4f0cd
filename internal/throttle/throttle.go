// Package throttle guards the poll-status endpoint against clients polling
// faster than the advertised interval. It keeps one expiring marker per
// rider and request in Redis and never stores entity state.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Throttle struct {
	client *redis.Client
	window time.Duration
}

// New returns a throttle admitting one poll per window. The window is 80%
// of interval so clients whose timers drift slightly early still pass.
func New(client *redis.Client, interval time.Duration) *Throttle {
	return &Throttle{client: client, window: interval * 4 / 5}
}

// Allow reports whether a poll may proceed, and if not how long to wait.
// A nil Throttle allows everything.
func (t *Throttle) Allow(ctx context.Context, riderID string, rideRequestID int64) (bool, time.Duration, error) {
	if t == nil || t.client == nil {
		return true, 0, nil
	}
	key := Key(riderID, rideRequestID)
	ok, err := t.client.SetNX(ctx, key, 1, t.window).Result()
	if err != nil {
		return true, 0, err
	}
	if ok {
		return true, 0, nil
	}
	ttl, err := t.client.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return false, t.window, err
	}
	return false, ttl, nil
}

func Key(riderID string, rideRequestID int64) string {
	return fmt.Sprintf("poll:%s:%d", riderID, rideRequestID)
}
