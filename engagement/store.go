package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/customer"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/trip"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

// LineReader answers the per-line "anything open?" questions the arbiter
// asks. Methods return nil, nil when nothing matches.
type LineReader interface {
	ActiveTrip(ctx context.Context, riderID string) (*trip.Trip, error)
	OpenRideRequest(ctx context.Context, riderID string) (*riderequest.RideRequest, error)
	ActiveAutonomousRide(ctx context.Context, riderID string) (*autonomous.Ride, error)
	CarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error)
	ActiveRental(ctx context.Context, customerID uuid.UUID) (*carshare.Rental, error)
	ActiveBooking(ctx context.Context, customerID uuid.UUID) (*carshare.Booking, error)
}

// RequestReader serves the transition resolver. RideRequest and Location
// return their package's ErrNotFound when the row is absent.
type RequestReader interface {
	RideRequest(ctx context.Context, id int64) (riderequest.RideRequest, error)
	LatestTripForRequest(ctx context.Context, rideRequestID int64) (*trip.Trip, error)
	Location(ctx context.Context, id int64) (location.Location, error)
}

type HistoryReader interface {
	TripsByRider(ctx context.Context, riderID string) ([]trip.Trip, error)
	AutonomousRidesByRider(ctx context.Context, riderID string) ([]autonomous.Ride, error)
	RentalsByCustomer(ctx context.Context, customerID uuid.UUID) ([]carshare.Rental, error)
}

type CountReader interface {
	TripCounts(ctx context.Context, riderID string) (trip.Counts, error)
	AutonomousCounts(ctx context.Context, riderID string) (autonomous.Counts, error)
	CarshareCounts(ctx context.Context, customerID uuid.UUID) (carshare.Counts, error)
}

// Writer is the insert side used by admission only.
type Writer interface {
	CreateRideRequest(ctx context.Context, rr *riderequest.RideRequest) error
	CreateAutonomousRide(ctx context.Context, ride *autonomous.Ride) error
	EnsureCarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error)
	CreateBooking(ctx context.Context, b *carshare.Booking) error
	// LockVehicle returns vehicle.ErrNotFound for unknown ids. The vehicle
	// stays locked against other bookings until the unit of work ends.
	LockVehicle(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error)
}

// Tx is a rider-locked unit of work.
type Tx interface {
	LineReader
	Writer
}

// Transactor runs fn with every other admission for riderID excluded until
// fn returns. fn's error rolls the work back.
type Transactor interface {
	WithRiderLock(ctx context.Context, riderID string, fn func(Tx) error) error
}

// Store is everything the engagement service needs from persistence.
type Store interface {
	LineReader
	RequestReader
	HistoryReader
	CountReader
	Transactor
}
