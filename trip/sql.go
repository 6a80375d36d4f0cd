package trip

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

// LatestForRequest returns the trip spawned by a ride request, or nil.
func (r *Repository) LatestForRequest(ctx context.Context, rideRequestID int64) (*Trip, error) {
	var t Trip
	err := sqlx.GetContext(ctx, r.db, &t, latestForRequestQuery, rideRequestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const latestForRequestQuery = `
SELECT * FROM trips
WHERE ride_request_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`

// ActiveByRider returns the rider's newest trip with an open status, or nil.
func (r *Repository) ActiveByRider(ctx context.Context, riderID string) (*Trip, error) {
	var t Trip
	err := sqlx.GetContext(ctx, r.db, &t, activeByRiderQuery, riderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var activeByRiderQuery = `
SELECT * FROM trips
WHERE rider_id = $1
  AND ` + status.OpenSQL("status") + `
ORDER BY created_at DESC, id DESC
LIMIT 1
`

// ListByRider returns every trip the rider has taken, in no particular order.
func (r *Repository) ListByRider(ctx context.Context, riderID string) ([]Trip, error) {
	var trips []Trip
	err := sqlx.SelectContext(ctx, r.db, &trips, listByRiderQuery, riderID)
	return trips, err
}

const listByRiderQuery = `SELECT * FROM trips WHERE rider_id = $1`

func (r *Repository) CountByRider(ctx context.Context, riderID string) (Counts, error) {
	var c Counts
	err := sqlx.GetContext(ctx, r.db, &c, countByRiderQuery, riderID)
	return c, err
}

var countByRiderQuery = `
SELECT
    COUNT(*) FILTER (WHERE ` + status.OpenSQL("status") + `) AS active,
    COUNT(*) FILTER (WHERE ` + status.CompletedSQL("status") + `) AS completed
FROM trips
WHERE rider_id = $1
`
