// Package autonomous models rides in driverless vehicles. They have their
// own request and assignment lifecycle with no ride request in front.
package autonomous

import (
	"database/sql"
	"time"
)

const StatusRequested = "requested"

type Ride struct {
	ID            int64         `db:"id"`
	RiderID       string        `db:"rider_id"`
	Vehicle       string        `db:"vehicle"`
	Pickup        string        `db:"pickup"`
	Dropoff       string        `db:"dropoff"`
	Status        string        `db:"status"`
	RequestedAt   sql.NullTime  `db:"requested_at"`
	StartedAt     sql.NullTime  `db:"started_at"`
	EndedAt       sql.NullTime  `db:"ended_at"`
	FareCents     sql.NullInt64 `db:"fare_cents"`
	PaymentStatus string        `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
}

type Counts struct {
	Active    int `db:"active"`
	Completed int `db:"completed"`
}
