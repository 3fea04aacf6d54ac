package storage

import (
	"context"
	_ "embed"

	"github.com/apimastery/appointments/libs/db"
)

//go:embed schema.sql
var schema string

// Migrate applies the idempotent booking schema. It is meant for development and tests;
// production databases are migrated out of band.
func Migrate(ctx context.Context, pool *db.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
