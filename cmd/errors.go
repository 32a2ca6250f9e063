package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

func FlagParseError(err error) error {
	msg := "Cannot parse command line flags: <em>%s</em>"
	vars := []any{err.Error()}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FlagParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func MissingFlagError(flag string) error {
	msg := "Flag <em>%s</em> is required"
	vars := []any{flag}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MissingFlagError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: missing flag %s",
			fn.Name(), flag),
	}
}

func UnknownBackendError(backend string) error {
	msg := "Backend <em>%s</em> is not supported, use sqlite, postgres or dump"
	vars := []any{backend}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnknownBackendError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("unknown backend "+backend)),
	}
}

func BackendEmptyError(backend string) error {
	msg := "Backend <em>%s</em> has no taxonomy data.\n" +
		"Run <em>sp2tax update</em> or drop --skip-update flag"
	vars := []any{backend}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.BackendEmptyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: backend %s is empty",
			fn.Name(), backend),
	}
}
