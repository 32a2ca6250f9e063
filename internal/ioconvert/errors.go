package ioconvert

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/pkg/errcode"
	"github.com/gnames/sp2tax/pkg/sp2tax"
)

// maxReported is the number of failed names shown to the user.
const maxReported = 5

// UnresolvedNamesError is returned when some names have no lineage and
// failures are not allowed.
func UnresolvedNamesError(failures []sp2tax.Failure) error {
	inputs := make([]string, 0, maxReported)
	for i, v := range failures {
		if i == maxReported {
			inputs = append(inputs, "...")
			break
		}
		inputs = append(inputs, fmt.Sprintf("'%s'", v.Input))
	}
	list := strings.Join(inputs, ", ")

	msg := `Cannot resolve %d name(s): %s

Use <em>--skip-failed</em> to save them to a file and continue.`
	vars := []any{len(failures), list}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnresolvedNamesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %d unresolved names: %s",
			fn.Name(), len(failures), list),
	}
}
