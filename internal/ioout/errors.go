package ioout

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
)

// FormatError is returned for an unsupported output format.
func FormatError(format string) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	msg := "Output format <em>%s</em> is not supported, use text, json or yaml"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.OutputFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown format %q", fn.Name(), format),
	}
}

// EncodeError is returned when output cannot be encoded.
func EncodeError(format string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	msg := "Cannot write <em>%s</em> output"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.OutputFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
