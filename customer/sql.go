package customer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

var ErrNotFound = errors.New("customer not found")

func (r *Repository) GetByRiderID(ctx context.Context, riderID string) (*Customer, error) {
	var customer Customer
	err := sqlx.GetContext(ctx, r.db, &customer, getByRiderIDQuery, riderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}
	return &customer, nil
}

const getByRiderIDQuery = "SELECT * FROM carshare_customers WHERE rider_id = $1"

// Ensure returns the rider's customer, creating it on first use.
func (r *Repository) Ensure(ctx context.Context, riderID string) (*Customer, error) {
	var customer Customer
	err := sqlx.GetContext(ctx, r.db, &customer, ensureQuery, uuid.New(), riderID)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

const ensureQuery = `
INSERT INTO carshare_customers (id, rider_id, created_at) VALUES ($1, $2, now())
ON CONFLICT (rider_id) DO UPDATE SET rider_id = EXCLUDED.rider_id
RETURNING *
`
