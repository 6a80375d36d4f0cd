package riderequest

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/mobility-backend/internal/status"
)

var ErrNotFound = errors.New("ride request not found")

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository whose queries run inside tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (RideRequest, error) {
	var rr RideRequest
	err := sqlx.GetContext(ctx, r.db, &rr, getByIDQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return RideRequest{}, ErrNotFound
	}
	return rr, err
}

const getByIDQuery = `SELECT * FROM ride_requests WHERE id = $1`

// OpenByRider returns the rider's newest request that is neither terminal nor
// already turned into a trip. Returns nil if there is none.
func (r *Repository) OpenByRider(ctx context.Context, riderID string) (*RideRequest, error) {
	var rr RideRequest
	err := sqlx.GetContext(ctx, r.db, &rr, openByRiderQuery, riderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

var openByRiderQuery = `
SELECT rr.* FROM ride_requests rr
WHERE rr.rider_id = $1
  AND ` + status.OpenSQL("rr.status") + `
  AND NOT EXISTS (SELECT 1 FROM trips t WHERE t.ride_request_id = rr.id)
ORDER BY rr.created_at DESC, rr.id DESC
LIMIT 1
`

// Create inserts rr and fills in the generated id and timestamps.
func (r *Repository) Create(ctx context.Context, rr *RideRequest) error {
	if rr.Status == "" {
		rr.Status = StatusPending
	}
	return sqlx.GetContext(ctx, r.db, rr, createQuery,
		rr.RiderID, rr.PickupLocationID, rr.Dropoff, rr.RideType, rr.Status)
}

const createQuery = `
INSERT INTO ride_requests (rider_id, pickup_location_id, dropoff, ride_type, status, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING *
`
