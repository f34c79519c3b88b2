package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
)

// newError annotates err with the function that called the constructor.
func newError(code gn.ErrorCode, msg string, path string, err error) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), path, err),
	}
}

func CreateDirError(dir string, err error) error {
	return newError(errcode.CreateDirError, "Cannot create %s", dir, err)
}

func CopyFileError(file string, err error) error {
	return newError(errcode.CopyFileError,
		"Cannot copy config file to %s", file, err)
}

func ReadFileError(path string, err error) error {
	return newError(errcode.ReadFileError, "Cannot read <em>%s</em>", path, err)
}

// InputNotFoundError is returned when a dataset file does not exist.
func InputNotFoundError(path string) error {
	return newError(errcode.InputNotFoundError,
		"File not found: <em>%s</em>", path, errNotFound)
}

var errNotFound = fmt.Errorf("file not found")
