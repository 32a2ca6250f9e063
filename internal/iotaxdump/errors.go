package iotaxdump

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
)

// ParseError is returned when a line of a dump file is malformed.
func ParseError(path string, line int, err error) error {
	msg := "Cannot parse line %d of <em>%s</em>"
	vars := []any{line, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxdumpParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: line %d of %s: %w",
			fn.Name(), line, path, err),
	}
}

// MissingDumpFileError is returned when a required dump file cannot
// be opened.
func MissingDumpFileError(path string, err error) error {
	msg := "Cannot open taxonomy dump file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxdumpExtractError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn.Name(), path, err),
	}
}

// DownloadError is returned when taxdump archive cannot be fetched.
func DownloadError(url string, err error) error {
	msg := "Cannot download taxonomy dump from <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxdumpDownloadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot download %s: %w",
			fn.Name(), url, err),
	}
}

// ExtractError is returned when taxdump archive is corrupted or does
// not contain required files.
func ExtractError(path string, err error) error {
	msg := "Cannot extract taxonomy dump from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxdumpExtractError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot extract %s: %w",
			fn.Name(), path, err),
	}
}
