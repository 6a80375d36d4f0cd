package engagement

import (
	"context"
	"fmt"
	"log/slog"
)

type LineCounts struct {
	Driver     int `json:"driver"`
	Autonomous int `json:"autonomous"`
	Carshare   int `json:"carshare"`
}

// Summary is the rider dashboard. HasAnyActiveRide is exactly the
// arbiter's verdict; anything that disables booking actions must use it
// rather than re-deriving from the counts.
type Summary struct {
	ActiveCounts        LineCounts  `json:"activeCounts"`
	TotalCounts         LineCounts  `json:"totalCounts"`
	ActiveEngagement    *Engagement `json:"activeEngagement"`
	HasAnyActiveRide    bool        `json:"hasAnyActiveRide"`
	UnreadNotifications int         `json:"unreadNotifications"`
}

// BuildSummary composes the arbiter verdict with per-line counters taken
// straight from each line's store, and the unread notification count. A
// failing notifier yields zero unread rather than an error.
func (s *Service) BuildSummary(ctx context.Context, riderID string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "engagement.BuildSummary")
	defer span.End()

	if riderID == "" {
		return Summary{}, ErrInvalidRequest
	}

	e, err := arbitrate(ctx, s.store, riderID, s.now())
	if err != nil {
		span.RecordError(err)
		return Summary{}, err
	}

	active, total, err := s.lineCounts(ctx, riderID)
	if err != nil {
		span.RecordError(err)
		return Summary{}, err
	}
	// A request still waiting for a driver has no trip row to count.
	if e != nil && e.Kind == KindRideRequest {
		active.Driver++
		total.Driver++
	}

	return Summary{
		ActiveCounts:        active,
		TotalCounts:         total,
		ActiveEngagement:    e,
		HasAnyActiveRide:    e != nil,
		UnreadNotifications: s.unread(ctx, riderID),
	}, nil
}

func (s *Service) lineCounts(ctx context.Context, riderID string) (active, total LineCounts, err error) {
	tc, err := s.store.TripCounts(ctx, riderID)
	if err != nil {
		return active, total, fmt.Errorf("count trips: %w", err)
	}
	ac, err := s.store.AutonomousCounts(ctx, riderID)
	if err != nil {
		return active, total, fmt.Errorf("count autonomous rides: %w", err)
	}
	active.Driver, total.Driver = tc.Active, tc.Active+tc.Completed
	active.Autonomous, total.Autonomous = ac.Active, ac.Active+ac.Completed

	cust, err := s.store.CarshareCustomer(ctx, riderID)
	if err != nil {
		return active, total, fmt.Errorf("carshare customer: %w", err)
	}
	if cust == nil {
		return active, total, nil
	}
	cc, err := s.store.CarshareCounts(ctx, cust.ID)
	if err != nil {
		return active, total, fmt.Errorf("count carshare: %w", err)
	}
	active.Carshare = cc.ActiveRentals + cc.ActiveBookings
	total.Carshare = cc.ActiveRentals + cc.CompletedRentals
	return active, total, nil
}

func (s *Service) unread(ctx context.Context, riderID string) int {
	if s.notifier == nil {
		return 0
	}
	n, err := s.notifier.UnreadCount(ctx, riderID)
	if err != nil {
		s.metrics.collaboratorFailures.WithLabelValues("messaging").Inc()
		s.logger.WarnContext(ctx, "unread count unavailable, reporting zero",
			slog.String("rider_id", riderID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return n
}
