// Package schema carries the relational layout the repositories query.
package schema

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var ddl string

// Apply creates any missing tables and indexes. It is idempotent.
func Apply(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}
