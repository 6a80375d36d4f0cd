package engagement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/messaging"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/trip"
)

func TestBuildSummaryCompletedOnly(t *testing.T) {
	f := newFixture(t)
	f.store.Trips = []trip.Trip{{ID: 1, RideRequestID: 1, RiderID: rider, Status: "completed", RequestedAt: at(now.Add(-48 * time.Hour)), CreatedAt: now}}
	f.store.AutonomousRides = []autonomous.Ride{{ID: 2, RiderID: rider, Status: "completed", RequestedAt: at(now.Add(-24 * time.Hour)), CreatedAt: now}}
	f.notifier.Counts[rider] = 3

	h, err := f.svc.ListHistory(context.Background(), rider, engagement.FilterAll)
	require.NoError(t, err)
	require.Len(t, h.Records, 2)
	assert.Equal(t, engagement.LineAutonomous, h.Records[0].Line)
	assert.Equal(t, engagement.LineDriver, h.Records[1].Line)

	s, err := f.svc.BuildSummary(context.Background(), rider)
	require.NoError(t, err)
	assert.Equal(t, engagement.LineCounts{Driver: 1, Autonomous: 1, Carshare: 0}, s.TotalCounts)
	assert.Equal(t, engagement.LineCounts{}, s.ActiveCounts)
	assert.Nil(t, s.ActiveEngagement)
	assert.False(t, s.HasAnyActiveRide)
	assert.Equal(t, 3, s.UnreadNotifications)
}

func TestBuildSummaryReflectsArbiter(t *testing.T) {
	f := newFixture(t)
	cust := f.withCustomer(rider)
	f.withBooking(cust, now.Add(time.Hour), now.Add(3*time.Hour))

	s, err := f.svc.BuildSummary(context.Background(), rider)
	require.NoError(t, err)
	require.NotNil(t, s.ActiveEngagement)
	assert.True(t, s.HasAnyActiveRide)
	assert.Equal(t, engagement.LineCarshare, s.ActiveEngagement.Line)
	assert.Equal(t, 1, s.ActiveCounts.Carshare)
	assert.Equal(t, 0, s.TotalCounts.Carshare)
}

func TestBuildSummaryCountsWaitingRequest(t *testing.T) {
	f := newFixture(t)
	f.store.RideRequests = []riderequest.RideRequest{{ID: 8, RiderID: rider, Status: "pending", CreatedAt: now}}

	s, err := f.svc.BuildSummary(context.Background(), rider)
	require.NoError(t, err)
	assert.True(t, s.HasAnyActiveRide)
	assert.Equal(t, 1, s.ActiveCounts.Driver)
	assert.Equal(t, 1, s.TotalCounts.Driver)
}

func TestBuildSummaryMessagingDown(t *testing.T) {
	f := newFixture(t)
	f.store.Trips = []trip.Trip{{ID: 1, RideRequestID: 1, RiderID: rider, Status: "in_progress", CreatedAt: now}}
	f.notifier.Err = messaging.ErrUnavailable

	s, err := f.svc.BuildSummary(context.Background(), rider)
	require.NoError(t, err)
	assert.Equal(t, 0, s.UnreadNotifications)
	assert.True(t, s.HasAnyActiveRide)
	assert.Equal(t, 1, s.ActiveCounts.Driver)
}

func TestBuildSummaryWithoutNotifier(t *testing.T) {
	f := newFixture(t)
	svc := engagement.NewService(f.store, engagement.Options{})

	s, err := svc.BuildSummary(context.Background(), rider)
	require.NoError(t, err)
	assert.Equal(t, 0, s.UnreadNotifications)
}

func TestBuildSummaryStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Err = assert.AnError

	_, err := f.svc.BuildSummary(context.Background(), rider)
	assert.ErrorIs(t, err, assert.AnError)
}
