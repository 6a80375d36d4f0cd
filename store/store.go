// Package store backs the engagement service with the per-line Postgres
// repositories and provides the rider-locked admission transaction.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/customer"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/trip"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

var _ engagement.Store = (*Store)(nil)

type Store struct {
	db *sqlx.DB
	lines
	locations *location.Repository
}

// lines holds the repositories that also run inside admission transactions.
type lines struct {
	requests   *riderequest.Repository
	trips      *trip.Repository
	autonomous *autonomous.Repository
	customers  *customer.Repository
	carshare   *carshare.Repository
	vehicles   *vehicle.Repository
}

func New(db *sqlx.DB) *Store {
	return &Store{
		db: db,
		lines: lines{
			requests:   riderequest.NewRepository(db),
			trips:      trip.NewRepository(db),
			autonomous: autonomous.NewRepository(db),
			customers:  customer.NewRepository(db),
			carshare:   carshare.NewRepository(db),
			vehicles:   vehicle.NewRepository(db),
		},
		locations: location.NewRepository(db),
	}
}

func (l lines) withTx(tx *sqlx.Tx) lines {
	return lines{
		requests:   l.requests.WithTx(tx),
		trips:      l.trips.WithTx(tx),
		autonomous: l.autonomous.WithTx(tx),
		customers:  l.customers.WithTx(tx),
		carshare:   l.carshare.WithTx(tx),
		vehicles:   l.vehicles.WithTx(tx),
	}
}

func (l lines) ActiveTrip(ctx context.Context, riderID string) (*trip.Trip, error) {
	return l.trips.ActiveByRider(ctx, riderID)
}

func (l lines) OpenRideRequest(ctx context.Context, riderID string) (*riderequest.RideRequest, error) {
	return l.requests.OpenByRider(ctx, riderID)
}

func (l lines) ActiveAutonomousRide(ctx context.Context, riderID string) (*autonomous.Ride, error) {
	return l.autonomous.ActiveByRider(ctx, riderID)
}

// CarshareCustomer returns nil for riders who never used carshare.
func (l lines) CarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error) {
	c, err := l.customers.GetByRiderID(ctx, riderID)
	if errors.Is(err, customer.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (l lines) ActiveRental(ctx context.Context, customerID uuid.UUID) (*carshare.Rental, error) {
	return l.carshare.ActiveRental(ctx, customerID)
}

func (l lines) ActiveBooking(ctx context.Context, customerID uuid.UUID) (*carshare.Booking, error) {
	return l.carshare.ActiveBooking(ctx, customerID)
}

func (l lines) CreateRideRequest(ctx context.Context, rr *riderequest.RideRequest) error {
	return l.requests.Create(ctx, rr)
}

func (l lines) CreateAutonomousRide(ctx context.Context, ride *autonomous.Ride) error {
	return l.autonomous.Create(ctx, ride)
}

func (l lines) EnsureCarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error) {
	return l.customers.Ensure(ctx, riderID)
}

func (l lines) CreateBooking(ctx context.Context, b *carshare.Booking) error {
	return l.carshare.CreateBooking(ctx, b)
}

func (l lines) LockVehicle(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error) {
	return l.vehicles.LockVehicle(ctx, id)
}

func (s *Store) RideRequest(ctx context.Context, id int64) (riderequest.RideRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *Store) LatestTripForRequest(ctx context.Context, rideRequestID int64) (*trip.Trip, error) {
	return s.trips.LatestForRequest(ctx, rideRequestID)
}

func (s *Store) Location(ctx context.Context, id int64) (location.Location, error) {
	return s.locations.GetLocation(ctx, id)
}

func (s *Store) TripsByRider(ctx context.Context, riderID string) ([]trip.Trip, error) {
	return s.trips.ListByRider(ctx, riderID)
}

func (s *Store) AutonomousRidesByRider(ctx context.Context, riderID string) ([]autonomous.Ride, error) {
	return s.autonomous.ListByRider(ctx, riderID)
}

func (s *Store) RentalsByCustomer(ctx context.Context, customerID uuid.UUID) ([]carshare.Rental, error) {
	return s.carshare.ListRentals(ctx, customerID)
}

func (s *Store) TripCounts(ctx context.Context, riderID string) (trip.Counts, error) {
	return s.trips.CountByRider(ctx, riderID)
}

func (s *Store) AutonomousCounts(ctx context.Context, riderID string) (autonomous.Counts, error) {
	return s.autonomous.CountByRider(ctx, riderID)
}

func (s *Store) CarshareCounts(ctx context.Context, customerID uuid.UUID) (carshare.Counts, error) {
	return s.carshare.CountByCustomer(ctx, customerID)
}

const riderLockQuery = `SELECT pg_advisory_xact_lock(hashtext('rider:' || $1))`

// WithRiderLock runs fn in a transaction holding a per-rider advisory lock.
// The lock is released on commit or rollback.
func (s *Store) WithRiderLock(ctx context.Context, riderID string, fn func(engagement.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, riderLockQuery, riderID); err != nil {
		return fmt.Errorf("lock rider: %w", err)
	}
	if err = fn(s.lines.withTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
