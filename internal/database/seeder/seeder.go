// Package seeder loads the reference catalogs the engine needs before any
// candidate data exists. Every seeder is idempotent.
package seeder

import (
	"context"

	"inclusion-engine/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
