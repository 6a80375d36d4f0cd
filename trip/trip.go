package trip

import (
	"database/sql"
	"time"
)

// Trip is created by dispatch once a ride request has a driver. A request
// has at most one trip that counts: the newest, ties broken by highest id.
type Trip struct {
	ID            int64         `db:"id"`
	RideRequestID int64         `db:"ride_request_id"`
	RiderID       string        `db:"rider_id"`
	DriverName    string        `db:"driver_name"`
	Status        string        `db:"status"`
	RequestedAt   sql.NullTime  `db:"requested_at"`
	StartedAt     sql.NullTime  `db:"started_at"`
	EndedAt       sql.NullTime  `db:"ended_at"`
	FareCents     sql.NullInt64 `db:"fare_cents"`
	PaymentStatus string        `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
}

// Counts is a rider's trip tally. Cancelled trips count towards neither.
type Counts struct {
	Active    int `db:"active"`
	Completed int `db:"completed"`
}
