package location

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Location is a pickup point a ride request can reference.
type Location struct {
	ID        int64        `db:"id"`
	Label     string       `db:"label"`
	Address   string       `db:"address"`
	Point     pgtype.Point `db:"point"`
	CreatedAt time.Time    `db:"created_at"`
}
