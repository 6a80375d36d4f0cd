package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"go.opentelemetry.io/otel/attribute"

	"github.com/semanticallynull/mobility-backend/internal/status"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
)

// Resolve reports the phase of a ride request for a polling client. It is a
// pure read: calling it any number of times changes nothing.
//
// Once a trip references the request the phase is assigned and stays
// assigned, since trips are never deleted. A request owned by another rider
// yields ErrForbidden; callers present that exactly like ErrNotFound.
func (s *Service) Resolve(ctx context.Context, rideRequestID int64, riderID string) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "engagement.Resolve")
	defer span.End()
	span.SetAttributes(attribute.Int64("ride_request.id", rideRequestID))

	rr, err := s.store.RideRequest(ctx, rideRequestID)
	if errors.Is(err, riderequest.ErrNotFound) {
		return Resolution{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return Resolution{}, fmt.Errorf("load ride request: %w", err)
	}

	if rr.RiderID != riderID {
		s.logger.WarnContext(ctx, "ride request polled by a rider who does not own it",
			slog.Int64("ride_request_id", rr.ID),
			slog.String("rider_id", riderID),
		)
		return Resolution{}, ErrForbidden
	}

	t, err := s.store.LatestTripForRequest(ctx, rr.ID)
	if err != nil {
		span.RecordError(err)
		return Resolution{}, fmt.Errorf("load trip: %w", err)
	}
	if t != nil {
		id := t.ID
		span.SetAttributes(attribute.String("resolution.phase", string(PhaseAssigned)))
		return Resolution{Phase: PhaseAssigned, TripID: &id, Status: status.Normalize(rr.Status)}, nil
	}

	if err := s.checkPickup(ctx, rr); err != nil {
		span.RecordError(err)
		return Resolution{}, err
	}

	res := Resolution{Phase: PhasePending, Status: status.Normalize(rr.Status)}
	if res.Status == status.Cancelled {
		res.Phase = PhaseCancelled
	}
	span.SetAttributes(attribute.String("resolution.phase", string(res.Phase)))
	return res, nil
}

// checkPickup verifies the request's pickup location still exists. A
// dangling reference is a store bug; it is logged with the full record and
// returned as an IntegrityError, never echoed to the rider.
func (s *Service) checkPickup(ctx context.Context, rr riderequest.RideRequest) error {
	if !rr.PickupLocationID.Valid {
		return nil
	}
	_, err := s.store.Location(ctx, rr.PickupLocationID.Int64)
	if err == nil {
		return nil
	}
	if !errors.Is(err, location.ErrNotFound) {
		return fmt.Errorf("load pickup location: %w", err)
	}

	fault := &IntegrityError{
		Entity:    "ride_request",
		EntityID:  strconv.FormatInt(rr.ID, 10),
		Missing:   "location",
		MissingID: strconv.FormatInt(rr.PickupLocationID.Int64, 10),
	}
	s.metrics.integrityFaults.Inc()
	s.logger.ErrorContext(ctx, "integrity fault",
		slog.String("error", fault.Error()),
		slog.Int64("ride_request_id", rr.ID),
		slog.Int64("location_id", rr.PickupLocationID.Int64),
		slog.String("record", spew.Sdump(rr)),
	)
	return fault
}
