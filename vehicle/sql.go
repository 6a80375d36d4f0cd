package vehicle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound     = errors.New("vehicle not found")
	ErrNotAvailable = errors.New("vehicle not available")
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

// GetVehicle looks a vehicle up by its windscreen label.
func (r *Repository) GetVehicle(ctx context.Context, label string) (Vehicle, error) {
	var v Vehicle
	err := sqlx.GetContext(ctx, r.db, &v, getVehicle, label)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

const getVehicle = `SELECT * FROM vehicles WHERE label = $1`

// LockVehicle reads the vehicle and holds its row lock until the enclosing
// transaction ends, so bookings of one vehicle are checked and inserted one
// at a time.
func (r *Repository) LockVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	var v Vehicle
	err := sqlx.GetContext(ctx, r.db, &v, lockVehicle, id)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

const lockVehicle = `SELECT * FROM vehicles WHERE id = $1 FOR UPDATE`
