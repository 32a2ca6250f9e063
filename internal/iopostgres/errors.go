package iopostgres

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

// LoadError is returned when dump files cannot be copied to PostgreSQL.
func LoadError(table string, err error) error {
	msg := "Cannot load taxonomy data into <em>%s</em> table"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBLoadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot copy to %s: %w",
			fn.Name(), table, err),
	}
}

// QueryError is returned when a lookup query fails.
func QueryError(err error) error {
	msg := "Taxonomy database query failed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
