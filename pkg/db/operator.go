package db

import (
	"context"

	"github.com/gnames/transitdb/pkg/config"
	"github.com/jmoiron/sqlx"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the sqlx handle
// for higher level components (SchemaManager, the transit store) that run
// their own SQL.
type Operator interface {
	// Connect opens the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// DB returns the sqlx handle of the open database, nil before Connect.
	DB() *sqlx.DB

	// Driver returns DriverPostgres or DriverSQLite.
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
