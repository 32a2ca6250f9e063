package iooutput

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

// WriteError is returned when the taxonomy table cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write output to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.OutputWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn.Name(), path, err),
	}
}

// FailFileError is returned when the report of failed names cannot be
// written.
func FailFileError(path string, err error) error {
	msg := "Cannot write failed names to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FailFileWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn.Name(), path, err),
	}
}
