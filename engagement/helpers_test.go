package engagement_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/customer"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/engagement/engagementtest"
	"github.com/semanticallynull/mobility-backend/internal/events"
	"github.com/semanticallynull/mobility-backend/messaging"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

const rider = "auth0|rider-1"

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *engagementtest.FakeStore
	notifier *messaging.FakeClient
	events   *events.Recorder
	svc      *engagement.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    &engagementtest.FakeStore{Now: func() time.Time { return now }},
		notifier: messaging.NewFakeClient(),
		events:   &events.Recorder{},
	}
	f.svc = engagement.NewService(f.store, engagement.Options{
		Notifier:   f.notifier,
		Events:     f.events,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registerer: prometheus.NewRegistry(),
		Now:        func() time.Time { return now },
	})
	return f
}

func at(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func cents(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

// withCustomer gives the rider a carshare identity and returns its id.
func (f *fixture) withCustomer(riderID string) uuid.UUID {
	id := uuid.New()
	f.store.Customers = append(f.store.Customers, customer.Customer{ID: id, RiderID: riderID, CreatedAt: now.Add(-30 * 24 * time.Hour)})
	return id
}

// withVehicle adds a vehicle to the fleet and returns its id.
func (f *fixture) withVehicle(label string, available bool) uuid.UUID {
	id := uuid.New()
	f.store.Vehicles = append(f.store.Vehicles, vehicle.Vehicle{ID: id, Label: label, Available: available})
	return id
}

func (f *fixture) withBooking(customerID uuid.UUID, start, end time.Time) carshare.Booking {
	b := carshare.Booking{
		ID:           uuid.New(),
		VehicleID:    f.withVehicle("CAR-001", true),
		VehicleLabel: "CAR-001",
		CustomerID:   customerID,
		StartTime:    start,
		EndTime:      end,
		CreatedAt:    now.Add(-time.Hour),
	}
	f.store.Bookings = append(f.store.Bookings, b)
	return b
}
