package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>How to fix:</em>
  1. Ensure PostgreSQL is reachable
  2. Check database section of the config file`

	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create taxonomy tables

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// CollationError creates an error for collation setting
// failures.
func CollationError(table, column string, err error) error {
	msg := "Cannot set collation for <em>%s.%s</em>"

	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Vars: []any{table, column},
		Err: fmt.Errorf("failed to set collation on %s.%s: %w",
			table, column, err),
	}
}
