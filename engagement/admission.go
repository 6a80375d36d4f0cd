package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/internal/events"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

const (
	MinBookingDuration = time.Hour
	MaxBookingDuration = 24 * time.Hour
)

// ConflictError is returned when admission finds the rider already engaged.
// It matches ErrAdmissionConflict with errors.Is.
type ConflictError struct {
	Active Engagement
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s %s", ErrAdmissionConflict, e.Active.Line, e.Active.Kind, e.Active.ID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAdmissionConflict
}

type RideRequestParams struct {
	PickupLocationID *int64
	Dropoff          string
	RideType         string
}

type AutonomousRideParams struct {
	Pickup  string
	Dropoff string
}

type BookingParams struct {
	VehicleID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

// AdmitRideRequest creates a pending driver ride request unless the rider is
// already engaged on any line.
func (s *Service) AdmitRideRequest(ctx context.Context, riderID string, p RideRequestParams) (*riderequest.RideRequest, error) {
	ctx, span := tracer.Start(ctx, "engagement.AdmitRideRequest")
	defer span.End()

	if riderID == "" || strings.TrimSpace(p.Dropoff) == "" {
		return nil, ErrInvalidRequest
	}
	rr := &riderequest.RideRequest{
		RiderID:  riderID,
		Dropoff:  strings.TrimSpace(p.Dropoff),
		RideType: strings.TrimSpace(p.RideType),
		Status:   riderequest.StatusPending,
	}
	if p.PickupLocationID != nil {
		if _, err := s.store.Location(ctx, *p.PickupLocationID); err != nil {
			if errors.Is(err, location.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown pickup location %d", ErrInvalidRequest, *p.PickupLocationID)
			}
			return nil, fmt.Errorf("load pickup location: %w", err)
		}
		rr.PickupLocationID.Int64, rr.PickupLocationID.Valid = *p.PickupLocationID, true
	}

	err := s.admit(ctx, LineDriver, riderID, func(tx Tx) error {
		return tx.CreateRideRequest(ctx, rr)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("ride_request.id", rr.ID))
	s.publish(ctx, events.TypeRideRequestAdmitted, riderID, LineDriver, strconv.FormatInt(rr.ID, 10))
	return rr, nil
}

// AdmitAutonomousRide creates a requested autonomous ride unless the rider
// is already engaged on any line.
func (s *Service) AdmitAutonomousRide(ctx context.Context, riderID string, p AutonomousRideParams) (*autonomous.Ride, error) {
	ctx, span := tracer.Start(ctx, "engagement.AdmitAutonomousRide")
	defer span.End()

	if riderID == "" || strings.TrimSpace(p.Pickup) == "" || strings.TrimSpace(p.Dropoff) == "" {
		return nil, ErrInvalidRequest
	}
	ride := &autonomous.Ride{
		RiderID: riderID,
		Pickup:  strings.TrimSpace(p.Pickup),
		Dropoff: strings.TrimSpace(p.Dropoff),
		Status:  autonomous.StatusRequested,
	}

	err := s.admit(ctx, LineAutonomous, riderID, func(tx Tx) error {
		return tx.CreateAutonomousRide(ctx, ride)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.publish(ctx, events.TypeAutonomousRideAdmitted, riderID, LineAutonomous, strconv.FormatInt(ride.ID, 10))
	return ride, nil
}

// AdmitCarshareBooking reserves a vehicle for the rider, creating their
// carshare customer on first use. The window must last between one and
// twenty-four hours. A window overlapping another booking of the same
// vehicle fails with carshare.ErrOverlap. Unknown and unavailable vehicles
// fail with vehicle.ErrNotFound and vehicle.ErrNotAvailable.
func (s *Service) AdmitCarshareBooking(ctx context.Context, riderID string, p BookingParams) (*carshare.Booking, error) {
	ctx, span := tracer.Start(ctx, "engagement.AdmitCarshareBooking")
	defer span.End()

	if riderID == "" || p.VehicleID == uuid.Nil {
		return nil, ErrInvalidRequest
	}
	d := p.EndTime.Sub(p.StartTime)
	if d < MinBookingDuration || d > MaxBookingDuration {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, carshare.ErrInvalidDuration)
	}
	if p.EndTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: booking window has already ended", ErrInvalidRequest)
	}

	b := &carshare.Booking{
		VehicleID: p.VehicleID,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}
	err := s.admit(ctx, LineCarshare, riderID, func(tx Tx) error {
		v, err := tx.LockVehicle(ctx, p.VehicleID)
		if err != nil {
			return fmt.Errorf("lock vehicle: %w", err)
		}
		if !v.Available {
			return vehicle.ErrNotAvailable
		}
		cust, err := tx.EnsureCarshareCustomer(ctx, riderID)
		if err != nil {
			return fmt.Errorf("ensure carshare customer: %w", err)
		}
		b.CustomerID = cust.ID
		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.publish(ctx, events.TypeCarshareBookingAdmitted, riderID, LineCarshare, b.ID.String())
	return b, nil
}

// admit runs the arbiter and insert under the rider lock, so two admissions
// for one rider cannot both see "nothing active".
func (s *Service) admit(ctx context.Context, line Line, riderID string, insert func(Tx) error) error {
	err := s.store.WithRiderLock(ctx, riderID, func(tx Tx) error {
		e, err := arbitrate(ctx, tx, riderID, s.now())
		if err != nil {
			return err
		}
		if e != nil {
			return &ConflictError{Active: *e}
		}
		return insert(tx)
	})

	outcome := "admitted"
	switch {
	case errors.Is(err, ErrAdmissionConflict):
		outcome = "conflict"
	case err != nil:
		outcome = "error"
	}
	s.metrics.admissions.WithLabelValues(line.String(), outcome).Inc()
	return err
}

func (s *Service) publish(ctx context.Context, typ, riderID string, line Line, recordID string) {
	e := events.Event{
		Type:       typ,
		RiderID:    riderID,
		Line:       line.String(),
		RecordID:   recordID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.metrics.collaboratorFailures.WithLabelValues("events").Inc()
		s.logger.WarnContext(ctx, "failed to publish admission event",
			slog.String("type", typ),
			slog.String("record_id", recordID),
			slog.String("error", err.Error()),
		)
	}
}
