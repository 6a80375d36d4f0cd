package pollclient

import (
	"context"
	"errors"
	"time"

	"github.com/semanticallynull/mobility-backend/engagement"
)

// Poller waits for a ride request to leave the pending phase.
type Poller struct {
	client Client
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewPoller(client Client) *Poller {
	return &Poller{client: client, sleep: sleep}
}

// Wait polls until the request is assigned or cancelled and returns that
// result. onPending, if non-nil, sees every pending answer. Polls are
// never closer together than engagement.PollInterval, or the server's
// Retry-After when it throttles. Wait returns ErrNotFound if the request
// disappears or belongs to someone else, and ctx.Err() once ctx is done.
func (p *Poller) Wait(ctx context.Context, rideRequestID int64, onPending func(Result)) (Result, error) {
	for {
		res, err := p.client.Status(ctx, rideRequestID)

		wait := engagement.PollInterval
		var throttled *ThrottledError
		switch {
		case errors.As(err, &throttled):
			wait = max(throttled.RetryAfter, wait)
		case err != nil:
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, err
		case res.Phase.Terminal():
			return res, nil
		default:
			if onPending != nil {
				onPending(res)
			}
			wait = max(res.Interval, wait)
		}

		if err := p.sleep(ctx, wait); err != nil {
			return Result{}, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
