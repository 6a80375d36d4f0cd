package riderequest

import (
	"database/sql"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// RideRequest is a rider's ask for a driver-dispatched trip. Dispatch moves
// it from pending to assigned (and creates a trip) or to cancelled.
type RideRequest struct {
	ID               int64         `db:"id"`
	RiderID          string        `db:"rider_id"`
	PickupLocationID sql.NullInt64 `db:"pickup_location_id"`
	Dropoff          string        `db:"dropoff"`
	RideType         string        `db:"ride_type"`
	Status           string        `db:"status"`
	CreatedAt        time.Time     `db:"created_at"`
}
