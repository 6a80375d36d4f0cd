// Package vehicle holds the carshare fleet.
package vehicle

import (
	"github.com/google/uuid"
)

// Vehicle is a carshare car which can be booked and unlocked.
type Vehicle struct {
	// ID is an internal identifier for a vehicle
	ID uuid.UUID `db:"id"`
	// Label is printed on the windscreen and scanned to unlock (e.g. "CAR-042").
	Label string `db:"label"`
	// DisplayName is a user-friendly model name (e.g. "Renault Zoe").
	DisplayName *string `db:"display_name"`

	Available bool `db:"available"`

	LocationID *int64 `db:"location_id"`
}
