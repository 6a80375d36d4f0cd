package engagement

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/semanticallynull/mobility-backend/internal/status"
)

// FindActiveEngagement returns the rider's open engagement, or nil if no
// line holds one.
//
// Lines are checked in Lines order (driver, autonomous, carshare) and the
// first match wins. Admission keeps at most one line open per rider, so the
// order only matters if that invariant was broken behind admission's back;
// callers treat the returned line as authoritative either way.
func (s *Service) FindActiveEngagement(ctx context.Context, riderID string) (*Engagement, error) {
	ctx, span := tracer.Start(ctx, "engagement.FindActiveEngagement")
	defer span.End()

	if riderID == "" {
		return nil, ErrInvalidRequest
	}

	e, err := arbitrate(ctx, s.store, riderID, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	line := "none"
	if e != nil {
		line = e.Line.String()
	}
	span.SetAttributes(attribute.String("engagement.line", line))
	s.metrics.activeChecks.WithLabelValues(line).Inc()
	return e, nil
}

func arbitrate(ctx context.Context, lines LineReader, riderID string, now time.Time) (*Engagement, error) {
	for _, l := range Lines {
		var (
			e   *Engagement
			err error
		)
		switch l {
		case LineDriver:
			e, err = activeDriver(ctx, lines, riderID)
		case LineAutonomous:
			e, err = activeAutonomous(ctx, lines, riderID)
		case LineCarshare:
			e, err = activeCarshare(ctx, lines, riderID, now)
		}
		if err != nil || e != nil {
			return e, err
		}
	}
	return nil, nil
}

func activeDriver(ctx context.Context, lines LineReader, riderID string) (*Engagement, error) {
	t, err := lines.ActiveTrip(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("active trip: %w", err)
	}
	if t != nil && status.IsOpen(t.Status) {
		return &Engagement{
			Line:   LineDriver,
			Kind:   KindTrip,
			ID:     strconv.FormatInt(t.ID, 10),
			Status: status.Normalize(t.Status),
		}, nil
	}

	rr, err := lines.OpenRideRequest(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("open ride request: %w", err)
	}
	if rr != nil && status.IsOpen(rr.Status) {
		return &Engagement{
			Line:   LineDriver,
			Kind:   KindRideRequest,
			ID:     strconv.FormatInt(rr.ID, 10),
			Status: status.Normalize(rr.Status),
		}, nil
	}
	return nil, nil
}

func activeAutonomous(ctx context.Context, lines LineReader, riderID string) (*Engagement, error) {
	ride, err := lines.ActiveAutonomousRide(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("active autonomous ride: %w", err)
	}
	if ride == nil || !status.IsOpen(ride.Status) {
		return nil, nil
	}
	return &Engagement{
		Line:   LineAutonomous,
		Kind:   KindAutonomousRide,
		ID:     strconv.FormatInt(ride.ID, 10),
		Status: status.Normalize(ride.Status),
	}, nil
}

func activeCarshare(ctx context.Context, lines LineReader, riderID string, now time.Time) (*Engagement, error) {
	cust, err := lines.CarshareCustomer(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("carshare customer: %w", err)
	}
	if cust == nil {
		return nil, nil
	}

	rental, err := lines.ActiveRental(ctx, cust.ID)
	if err != nil {
		return nil, fmt.Errorf("active rental: %w", err)
	}
	if rental != nil && rental.Unresolved() {
		return &Engagement{
			Line:   LineCarshare,
			Kind:   KindRental,
			ID:     rental.ID.String(),
			Status: rental.Status(),
		}, nil
	}

	booking, err := lines.ActiveBooking(ctx, cust.ID)
	if err != nil {
		return nil, fmt.Errorf("active booking: %w", err)
	}
	if booking != nil && booking.Unresolved(now) {
		return &Engagement{
			Line:   LineCarshare,
			Kind:   KindBooking,
			ID:     booking.ID.String(),
			Status: string(booking.StatusAt(now)),
		}, nil
	}
	return nil, nil
}
