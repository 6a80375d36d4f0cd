package autonomous

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/mobility-backend/internal/status"
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

func (r *Repository) ActiveByRider(ctx context.Context, riderID string) (*Ride, error) {
	var ride Ride
	err := sqlx.GetContext(ctx, r.db, &ride, activeByRiderQuery, riderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

var activeByRiderQuery = `
SELECT * FROM autonomous_rides
WHERE rider_id = $1
  AND ` + status.OpenSQL("status") + `
ORDER BY created_at DESC, id DESC
LIMIT 1
`

func (r *Repository) ListByRider(ctx context.Context, riderID string) ([]Ride, error) {
	var rides []Ride
	err := sqlx.SelectContext(ctx, r.db, &rides, listByRiderQuery, riderID)
	return rides, err
}

const listByRiderQuery = `SELECT * FROM autonomous_rides WHERE rider_id = $1`

func (r *Repository) CountByRider(ctx context.Context, riderID string) (Counts, error) {
	var c Counts
	err := sqlx.GetContext(ctx, r.db, &c, countByRiderQuery, riderID)
	return c, err
}

var countByRiderQuery = `
SELECT
    COUNT(*) FILTER (WHERE ` + status.OpenSQL("status") + `) AS active,
    COUNT(*) FILTER (WHERE ` + status.CompletedSQL("status") + `) AS completed
FROM autonomous_rides
WHERE rider_id = $1
`

// Create inserts a freshly requested ride and fills in generated columns.
func (r *Repository) Create(ctx context.Context, ride *Ride) error {
	if ride.Status == "" {
		ride.Status = StatusRequested
	}
	return sqlx.GetContext(ctx, r.db, ride, createQuery,
		ride.RiderID, ride.Pickup, ride.Dropoff, ride.Status)
}

const createQuery = `
INSERT INTO autonomous_rides (rider_id, pickup, dropoff, status, requested_at, payment_status, created_at)
VALUES ($1, $2, $3, $4, now(), 'pending', now())
RETURNING *
`
