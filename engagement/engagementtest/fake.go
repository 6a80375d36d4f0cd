// Package engagementtest provides an in-memory engagement.Store for tests.
package engagementtest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/customer"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/internal/status"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/trip"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

var _ engagement.Store = (*FakeStore)(nil)

// FakeStore mirrors the SQL store's query semantics over slices. Seed the
// exported fields before use; do not touch them while calls are running.
type FakeStore struct {
	RideRequests    []riderequest.RideRequest
	Trips           []trip.Trip
	AutonomousRides []autonomous.Ride
	Customers       []customer.Customer
	Rentals         []carshare.Rental
	Bookings        []carshare.Booking
	Locations       []location.Location
	Vehicles        []vehicle.Vehicle

	// Err, when set, is returned by every read.
	Err error
	// Now defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	txMu   sync.Mutex
	nextID int64
}

func (f *FakeStore) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func newestFirst(aCreated, bCreated time.Time, aID, bID int64) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}

func (f *FakeStore) ActiveTrip(ctx context.Context, riderID string) (*trip.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeTrip(riderID)
}

func (f *FakeStore) activeTrip(riderID string) (*trip.Trip, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var open []trip.Trip
	for _, t := range f.Trips {
		if t.RiderID == riderID && status.IsOpen(t.Status) {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil, nil
	}
	slices.SortFunc(open, func(a, b trip.Trip) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return &open[0], nil
}

func (f *FakeStore) OpenRideRequest(ctx context.Context, riderID string) (*riderequest.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var open []riderequest.RideRequest
	for _, rr := range f.RideRequests {
		if rr.RiderID == riderID && status.IsOpen(rr.Status) && f.latestTrip(rr.ID) == nil {
			open = append(open, rr)
		}
	}
	if len(open) == 0 {
		return nil, nil
	}
	slices.SortFunc(open, func(a, b riderequest.RideRequest) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return &open[0], nil
}

func (f *FakeStore) ActiveAutonomousRide(ctx context.Context, riderID string) (*autonomous.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var open []autonomous.Ride
	for _, r := range f.AutonomousRides {
		if r.RiderID == riderID && status.IsOpen(r.Status) {
			open = append(open, r)
		}
	}
	if len(open) == 0 {
		return nil, nil
	}
	slices.SortFunc(open, func(a, b autonomous.Ride) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return &open[0], nil
}

func (f *FakeStore) CarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, c := range f.Customers {
		if c.RiderID == riderID {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *FakeStore) ActiveRental(ctx context.Context, customerID uuid.UUID) (*carshare.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var found *carshare.Rental
	for _, r := range f.Rentals {
		r := r
		if r.CustomerID == customerID && r.Unresolved() {
			if found == nil || r.StartedAt.After(found.StartedAt) {
				found = &r
			}
		}
	}
	return found, nil
}

func (f *FakeStore) ActiveBooking(ctx context.Context, customerID uuid.UUID) (*carshare.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	now := f.now()
	var found *carshare.Booking
	for _, b := range f.Bookings {
		b := b
		if b.CustomerID == customerID && b.Unresolved(now) {
			if found == nil || b.StartTime.Before(found.StartTime) {
				found = &b
			}
		}
	}
	return found, nil
}

func (f *FakeStore) RideRequest(ctx context.Context, id int64) (riderequest.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return riderequest.RideRequest{}, f.Err
	}
	for _, rr := range f.RideRequests {
		if rr.ID == id {
			return rr, nil
		}
	}
	return riderequest.RideRequest{}, riderequest.ErrNotFound
}

func (f *FakeStore) LatestTripForRequest(ctx context.Context, rideRequestID int64) (*trip.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.latestTrip(rideRequestID), nil
}

func (f *FakeStore) latestTrip(rideRequestID int64) *trip.Trip {
	var found *trip.Trip
	for _, t := range f.Trips {
		t := t
		if t.RideRequestID != rideRequestID {
			continue
		}
		if found == nil || newestFirst(t.CreatedAt, found.CreatedAt, t.ID, found.ID) < 0 {
			found = &t
		}
	}
	return found
}

func (f *FakeStore) Location(ctx context.Context, id int64) (location.Location, error) {
	return f.GetLocation(ctx, id)
}

// GetLocation matches location.Repository.
func (f *FakeStore) GetLocation(ctx context.Context, id int64) (location.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return location.Location{}, f.Err
	}
	for _, l := range f.Locations {
		if l.ID == id {
			return l, nil
		}
	}
	return location.Location{}, location.ErrNotFound
}

// GetVehicle matches vehicle.Repository.
func (f *FakeStore) GetVehicle(ctx context.Context, label string) (vehicle.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return vehicle.Vehicle{}, f.Err
	}
	for _, v := range f.Vehicles {
		if v.Label == label {
			return v, nil
		}
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

// LockVehicle only reads; units of work never overlap in the fake.
func (f *FakeStore) LockVehicle(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return vehicle.Vehicle{}, f.Err
	}
	for _, v := range f.Vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

func (f *FakeStore) TripsByRider(ctx context.Context, riderID string) ([]trip.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []trip.Trip
	for _, t := range f.Trips {
		if t.RiderID == riderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeStore) AutonomousRidesByRider(ctx context.Context, riderID string) ([]autonomous.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []autonomous.Ride
	for _, r := range f.AutonomousRides {
		if r.RiderID == riderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeStore) RentalsByCustomer(ctx context.Context, customerID uuid.UUID) ([]carshare.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []carshare.Rental
	for _, r := range f.Rentals {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeStore) TripCounts(ctx context.Context, riderID string) (trip.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c trip.Counts
	if f.Err != nil {
		return c, f.Err
	}
	for _, t := range f.Trips {
		if t.RiderID != riderID {
			continue
		}
		switch s := status.Normalize(t.Status); {
		case s == status.Completed:
			c.Completed++
		case status.IsOpen(s):
			c.Active++
		}
	}
	return c, nil
}

func (f *FakeStore) AutonomousCounts(ctx context.Context, riderID string) (autonomous.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c autonomous.Counts
	if f.Err != nil {
		return c, f.Err
	}
	for _, r := range f.AutonomousRides {
		if r.RiderID != riderID {
			continue
		}
		switch s := status.Normalize(r.Status); {
		case s == status.Completed:
			c.Completed++
		case status.IsOpen(s):
			c.Active++
		}
	}
	return c, nil
}

func (f *FakeStore) CarshareCounts(ctx context.Context, customerID uuid.UUID) (carshare.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c carshare.Counts
	if f.Err != nil {
		return c, f.Err
	}
	for _, r := range f.Rentals {
		if r.CustomerID != customerID {
			continue
		}
		if r.Unresolved() {
			c.ActiveRentals++
		} else {
			c.CompletedRentals++
		}
	}
	now := f.now()
	for _, b := range f.Bookings {
		if b.CustomerID == customerID && b.Unresolved(now) {
			c.ActiveBookings++
		}
	}
	return c, nil
}

func (f *FakeStore) CreateRideRequest(ctx context.Context, rr *riderequest.RideRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rr.Status == "" {
		rr.Status = riderequest.StatusPending
	}
	rr.ID = f.id()
	rr.CreatedAt = f.now()
	f.RideRequests = append(f.RideRequests, *rr)
	return nil
}

func (f *FakeStore) CreateAutonomousRide(ctx context.Context, ride *autonomous.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ride.Status == "" {
		ride.Status = autonomous.StatusRequested
	}
	now := f.now()
	ride.ID = f.id()
	ride.CreatedAt = now
	ride.RequestedAt.Time, ride.RequestedAt.Valid = now, true
	ride.PaymentStatus = "pending"
	f.AutonomousRides = append(f.AutonomousRides, *ride)
	return nil
}

func (f *FakeStore) EnsureCarshareCustomer(ctx context.Context, riderID string) (*customer.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Customers {
		if c.RiderID == riderID {
			return &c, nil
		}
	}
	c := customer.Customer{ID: uuid.New(), RiderID: riderID, CreatedAt: f.now()}
	f.Customers = append(f.Customers, c)
	return &c, nil
}

func (f *FakeStore) CreateBooking(ctx context.Context, b *carshare.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !b.EndTime.After(b.StartTime) {
		return carshare.ErrInvalidDuration
	}
	for _, other := range f.Bookings {
		if other.VehicleID == b.VehicleID && !other.CancelledAt.Valid && !other.UnlockedAt.Valid &&
			other.StartTime.Before(b.EndTime) && other.EndTime.After(b.StartTime) {
			return carshare.ErrOverlap
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = f.now()
	for _, v := range f.Vehicles {
		if v.ID == b.VehicleID {
			b.VehicleLabel = v.Label
			if v.DisplayName != nil {
				b.VehicleName.String, b.VehicleName.Valid = *v.DisplayName, true
			}
		}
	}
	f.Bookings = append(f.Bookings, *b)
	return nil
}

// WithRiderLock runs one unit of work at a time and restores every slice if
// fn fails, standing in for the SQL store's locks and rollback.
func (f *FakeStore) WithRiderLock(ctx context.Context, riderID string, fn func(engagement.Tx) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snap := f.snapshot()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restore(snap)
		f.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	rideRequests    []riderequest.RideRequest
	autonomousRides []autonomous.Ride
	customers       []customer.Customer
	bookings        []carshare.Booking
}

func (f *FakeStore) snapshot() snapshot {
	return snapshot{
		rideRequests:    slices.Clone(f.RideRequests),
		autonomousRides: slices.Clone(f.AutonomousRides),
		customers:       slices.Clone(f.Customers),
		bookings:        slices.Clone(f.Bookings),
	}
}

func (f *FakeStore) restore(s snapshot) {
	f.RideRequests = s.rideRequests
	f.AutonomousRides = s.autonomousRides
	f.Customers = s.customers
	f.Bookings = s.bookings
}

func (f *FakeStore) id() int64 {
	if f.nextID == 0 {
		f.nextID = 1000
	}
	f.nextID++
	return f.nextID
}
