package carshare

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrOverlap         = errors.New("booking overlaps with existing booking")
	ErrInvalidDuration = errors.New("invalid booking duration")
)

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

// ActiveRental returns the customer's rental that has not ended, or nil.
func (r *Repository) ActiveRental(ctx context.Context, customerID uuid.UUID) (*Rental, error) {
	var rental Rental
	err := sqlx.GetContext(ctx, r.db, &rental, activeRentalQuery, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

const activeRentalQuery = `
SELECT rn.*, v.label AS vehicle_label, v.display_name AS vehicle_name
FROM rentals rn JOIN vehicles v ON rn.vehicle_id = v.id
WHERE rn.customer_id = $1
  AND rn.ended_at IS NULL
ORDER BY rn.started_at DESC
LIMIT 1
`

// ActiveBooking returns the customer's earliest booking still holding a
// vehicle, or nil.
func (r *Repository) ActiveBooking(ctx context.Context, customerID uuid.UUID) (*Booking, error) {
	var b Booking
	err := sqlx.GetContext(ctx, r.db, &b, activeBookingQuery, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const activeBookingQuery = `
SELECT bk.*, v.label AS vehicle_label, v.display_name AS vehicle_name
FROM bookings bk JOIN vehicles v ON bk.vehicle_id = v.id
WHERE bk.customer_id = $1
  AND bk.cancelled_at IS NULL
  AND bk.unlocked_at IS NULL
  AND bk.end_time >= now()
ORDER BY bk.start_time ASC
LIMIT 1
`

// ListRentals returns every rental of the customer, in no particular order.
func (r *Repository) ListRentals(ctx context.Context, customerID uuid.UUID) ([]Rental, error) {
	var rentals []Rental
	err := sqlx.SelectContext(ctx, r.db, &rentals, listRentalsQuery, customerID)
	return rentals, err
}

const listRentalsQuery = `
SELECT rn.*, v.label AS vehicle_label, v.display_name AS vehicle_name
FROM rentals rn JOIN vehicles v ON rn.vehicle_id = v.id
WHERE rn.customer_id = $1
`

func (r *Repository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (Counts, error) {
	var c Counts
	err := sqlx.GetContext(ctx, r.db, &c, countByCustomerQuery, customerID)
	return c, err
}

const countByCustomerQuery = `
SELECT
    (SELECT COUNT(*) FROM rentals WHERE customer_id = $1 AND ended_at IS NULL) AS active_rentals,
    (SELECT COUNT(*) FROM bookings WHERE customer_id = $1
        AND cancelled_at IS NULL AND unlocked_at IS NULL AND end_time >= now()) AS active_bookings,
    (SELECT COUNT(*) FROM rentals WHERE customer_id = $1 AND ended_at IS NOT NULL) AS completed_rentals
`

// CreateBooking inserts a booking after checking the vehicle is free for
// the window. The overlap check locks conflicting rows.
func (r *Repository) CreateBooking(ctx context.Context, b *Booking) error {
	if !b.EndTime.After(b.StartTime) {
		return ErrInvalidDuration
	}

	var overlappingIDs []uuid.UUID
	err := sqlx.SelectContext(ctx, r.db, &overlappingIDs, checkOverlapQuery, b.VehicleID, b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	if len(overlappingIDs) > 0 {
		return ErrOverlap
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return sqlx.GetContext(ctx, r.db, b, createBookingQuery,
		b.ID, b.VehicleID, b.CustomerID, b.StartTime, b.EndTime, b.TotalCents)
}

const checkOverlapQuery = `
SELECT id FROM bookings
WHERE vehicle_id = $1
  AND cancelled_at IS NULL
  AND unlocked_at IS NULL
  AND start_time < $3
  AND end_time > $2
FOR UPDATE
`

const createBookingQuery = `
WITH bk AS (
    INSERT INTO bookings (id, vehicle_id, customer_id, start_time, end_time, total_cents, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, now())
    RETURNING *
)
SELECT bk.*, v.label AS vehicle_label, v.display_name AS vehicle_name
FROM bk JOIN vehicles v ON bk.vehicle_id = v.id
`
