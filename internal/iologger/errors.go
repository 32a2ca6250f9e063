package iologger

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

func CreateLogFileError(path string, err error) error {
	msg := "Cannot open log file <em>%s</em> in <em>%s</em>"
	vars := []any{filepath.Base(path), filepath.Dir(path)}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open log file %s: %w",
			fn.Name(), path, err),
	}
}
