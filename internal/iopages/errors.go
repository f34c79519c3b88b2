package iopages

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
)

func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name()
}

// ValidationError is returned when a station page cannot be saved.
func ValidationError(reason string) error {
	msg := "Cannot save the station page: %s"
	vars := []any{reason}
	return &gn.Error{
		Code: errcode.StationPageValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s", caller(), reason),
	}
}

// StationNotFoundError is returned for a missing station record.
func StationNotFoundError(id int64) error {
	msg := "No station record found with id <em>%d</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.StationNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: station %d not found", caller(), id),
	}
}

// PageNotFoundError is returned for a missing page.
func PageNotFoundError(id int64) error {
	msg := "No page found with id <em>%d</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.PageNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: page %d not found", caller(), id),
	}
}

// PageKindError is returned when a page has a kind the operation does
// not support.
func PageKindError(id int64, kind string, want string) error {
	msg := "Page <em>%d</em> is a %s page, expected %s"
	vars := []any{id, kind, want}
	return &gn.Error{
		Code: errcode.PageKindError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: page %d has kind %s", caller(), id, kind),
	}
}

// RouteNotFoundError is returned when a path does not lead to a live page.
func RouteNotFoundError(path string) error {
	msg := "No live page found at <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.RouteNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s not found", caller(), path),
	}
}
