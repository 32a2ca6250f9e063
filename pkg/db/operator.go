// Package db defines contracts for the PostgreSQL backend. The
// implementations live in internal/iodb and internal/ioschema.
package db

import (
	"context"

	"github.com/gnames/sp2tax/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for the backend to execute its queries and bulk loads.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. The backend uses it for
	// transactions, bulk inserts (CopyFrom) and lookups.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)
}

// SchemaManager creates the taxonomy tables.
type SchemaManager interface {
	// Create creates or updates the schema. Existing data is kept.
	Create(ctx context.Context) error
}
