package engagement_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/location"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/trip"
)

func seedRequest(f *fixture, id int64, st string) {
	f.store.Locations = append(f.store.Locations, location.Location{ID: 5, Label: "Home"})
	f.store.RideRequests = append(f.store.RideRequests, riderequest.RideRequest{
		ID:               id,
		RiderID:          rider,
		PickupLocationID: sql.NullInt64{Int64: 5, Valid: true},
		Dropoff:          "Central Station",
		Status:           st,
		CreatedAt:        now.Add(-time.Minute),
	})
}

func TestResolvePending(t *testing.T) {
	f := newFixture(t)
	seedRequest(f, 40, "Pending")

	res, err := f.svc.Resolve(context.Background(), 40, rider)
	require.NoError(t, err)
	assert.Equal(t, engagement.PhasePending, res.Phase)
	assert.Nil(t, res.TripID)
	assert.False(t, res.Phase.Terminal())
}

func TestResolveCancelled(t *testing.T) {
	for _, st := range []string{"cancelled", "Canceled", " CANCELLED "} {
		t.Run(st, func(t *testing.T) {
			f := newFixture(t)
			seedRequest(f, 41, st)

			res, err := f.svc.Resolve(context.Background(), 41, rider)
			require.NoError(t, err)
			assert.Equal(t, engagement.PhaseCancelled, res.Phase)
			assert.True(t, res.Phase.Terminal())
		})
	}
}

func TestResolveAssignedIsSticky(t *testing.T) {
	f := newFixture(t)
	seedRequest(f, 42, "pending")

	res, err := f.svc.Resolve(context.Background(), 42, rider)
	require.NoError(t, err)
	require.Equal(t, engagement.PhasePending, res.Phase)

	f.store.Trips = append(f.store.Trips, trip.Trip{ID: 90, RideRequestID: 42, RiderID: rider, Status: "assigned", CreatedAt: now})

	for i := 0; i < 3; i++ {
		res, err = f.svc.Resolve(context.Background(), 42, rider)
		require.NoError(t, err)
		assert.Equal(t, engagement.PhaseAssigned, res.Phase)
		require.NotNil(t, res.TripID)
		assert.Equal(t, int64(90), *res.TripID)
	}

	// Later trip progress and a stale request status do not move it back.
	f.store.Trips[0].Status = "completed"
	f.store.RideRequests[0].Status = "cancelled"
	res, err = f.svc.Resolve(context.Background(), 42, rider)
	require.NoError(t, err)
	assert.Equal(t, engagement.PhaseAssigned, res.Phase)
	assert.Equal(t, int64(90), *res.TripID)
}

func TestResolveLatestTripWins(t *testing.T) {
	f := newFixture(t)
	seedRequest(f, 43, "assigned")
	f.store.Trips = []trip.Trip{
		{ID: 91, RideRequestID: 43, RiderID: rider, Status: "cancelled", CreatedAt: now.Add(-time.Minute)},
		{ID: 93, RideRequestID: 43, RiderID: rider, Status: "assigned", CreatedAt: now},
		{ID: 92, RideRequestID: 43, RiderID: rider, Status: "assigned", CreatedAt: now},
	}

	res, err := f.svc.Resolve(context.Background(), 43, rider)
	require.NoError(t, err)
	require.NotNil(t, res.TripID)
	assert.Equal(t, int64(93), *res.TripID)
}

func TestResolveUnknownRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Resolve(context.Background(), 404, rider)
	assert.ErrorIs(t, err, engagement.ErrNotFound)
}

func TestResolveOtherRidersRequest(t *testing.T) {
	f := newFixture(t)
	seedRequest(f, 44, "pending")

	_, err := f.svc.Resolve(context.Background(), 44, "auth0|intruder")
	assert.ErrorIs(t, err, engagement.ErrForbidden)
	assert.NotErrorIs(t, err, engagement.ErrNotFound)
}

func TestResolveDanglingPickup(t *testing.T) {
	f := newFixture(t)
	f.store.RideRequests = []riderequest.RideRequest{{
		ID:               45,
		RiderID:          rider,
		PickupLocationID: sql.NullInt64{Int64: 77, Valid: true},
		Status:           "pending",
		CreatedAt:        now,
	}}

	_, err := f.svc.Resolve(context.Background(), 45, rider)
	require.ErrorIs(t, err, engagement.ErrIntegrity)

	var ie *engagement.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "ride_request", ie.Entity)
	assert.Equal(t, "45", ie.EntityID)
	assert.Equal(t, "location", ie.Missing)
	assert.Equal(t, "77", ie.MissingID)
}

func TestResolveNoPickup(t *testing.T) {
	f := newFixture(t)
	f.store.RideRequests = []riderequest.RideRequest{{ID: 46, RiderID: rider, Status: "pending", CreatedAt: now}}

	res, err := f.svc.Resolve(context.Background(), 46, rider)
	require.NoError(t, err)
	assert.Equal(t, engagement.PhasePending, res.Phase)
}
