package customer

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a rider's carshare identity. Riders who never used carshare
// have none.
type Customer struct {
	ID        uuid.UUID `db:"id"`
	RiderID   string    `db:"rider_id"`
	CreatedAt time.Time `db:"created_at"`
}
