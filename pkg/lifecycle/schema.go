package lifecycle

import (
	"context"

	"github.com/gnames/transitdb/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the schema and seeds the tree root and the home page.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the schema to the latest version, keeping data.
	Migrate(ctx context.Context, cfg *config.Config) error
}
