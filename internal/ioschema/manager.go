// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"

	"github.com/gnames/sp2tax/pkg/db"
	"github.com/gnames/sp2tax/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the db.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) db.SchemaManager {
	return &manager{operator: op}
}

// Create creates or updates the taxonomy schema using GORM
// AutoMigrate. Also applies "C" collation to names for exact
// byte-wise matching.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err = schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	return m.setCollation(ctx)
}

// setCollation sets "C" collation on the name column. Without it
// comparison of names depends on the locale of the server.
func (m *manager) setCollation(ctx context.Context) error {
	table, column := schema.Name{}.TableName(), "name"
	q := collationSQL(table, column)
	if _, err := m.operator.Pool().Exec(ctx, q); err != nil {
		return CollationError(table, column, err)
	}
	return nil
}

func collationSQL(table, column string) string {
	return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s TYPE TEXT COLLATE "C"`,
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{column}.Sanitize())
}
