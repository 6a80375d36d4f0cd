package location

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("location not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetLocation(ctx context.Context, id int64) (Location, error) {
	var l Location
	err := r.db.GetContext(ctx, &l, getLocation, id)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

const getLocation = `SELECT * FROM locations WHERE id = $1`
