// Package carshare reads and writes rentals and bookings, the two kinds of
// carshare engagement. A customer holds at most one unresolved item of
// either kind at a time.
package carshare

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusUnlocked  BookingStatus = "unlocked"
	StatusExpired   BookingStatus = "expired"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking reserves a vehicle for a window. It resolves when it is
// cancelled, unlocked into a rental, or its window passes.
type Booking struct {
	ID           uuid.UUID      `db:"id"`
	VehicleID    uuid.UUID      `db:"vehicle_id"`
	VehicleLabel string         `db:"vehicle_label"`
	VehicleName  sql.NullString `db:"vehicle_name"`
	CustomerID   uuid.UUID      `db:"customer_id"`
	StartTime    time.Time      `db:"start_time"`
	EndTime      time.Time      `db:"end_time"`
	CancelledAt  sql.NullTime   `db:"cancelled_at"`
	UnlockedAt   sql.NullTime   `db:"unlocked_at"`
	TotalCents   sql.NullInt64  `db:"total_cents"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Status derives the booking status from the booking's data.
func (b Booking) Status() BookingStatus {
	return b.StatusAt(time.Now())
}

// StatusAt derives the booking status at a given time.
func (b Booking) StatusAt(now time.Time) BookingStatus {
	if b.CancelledAt.Valid {
		return StatusCancelled
	}
	if b.UnlockedAt.Valid {
		return StatusUnlocked
	}
	if b.EndTime.Before(now) {
		return StatusExpired
	}
	if !b.StartTime.After(now) {
		return StatusActive
	}
	return StatusConfirmed
}

// Unresolved reports whether the booking still holds the vehicle at now.
func (b Booking) Unresolved(now time.Time) bool {
	s := b.StatusAt(now)
	return s == StatusConfirmed || s == StatusActive
}

// Rental is a vehicle checked out by a customer. It is unresolved until
// EndedAt is set, after which it is part of the customer's history.
type Rental struct {
	ID            uuid.UUID      `db:"id"`
	VehicleID     uuid.UUID      `db:"vehicle_id"`
	VehicleLabel  string         `db:"vehicle_label"`
	VehicleName   sql.NullString `db:"vehicle_name"`
	CustomerID    uuid.UUID      `db:"customer_id"`
	BookingID     uuid.NullUUID  `db:"booking_id"`
	StartedAt     time.Time      `db:"started_at"`
	EndedAt       sql.NullTime   `db:"ended_at"`
	TotalCents    sql.NullInt64  `db:"total_cents"`
	PaymentStatus string         `db:"payment_status"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r Rental) Unresolved() bool {
	return !r.EndedAt.Valid
}

// Status is the rental's lifecycle status in the shared vocabulary.
func (r Rental) Status() string {
	if r.EndedAt.Valid {
		return "completed"
	}
	return "in_progress"
}

// Counts tallies a customer's carshare use.
type Counts struct {
	ActiveRentals    int `db:"active_rentals"`
	ActiveBookings   int `db:"active_bookings"`
	CompletedRentals int `db:"completed_rentals"`
}
