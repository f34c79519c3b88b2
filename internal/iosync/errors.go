package iosync

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

// IndexSelectorError is returned when the index page is not selected.
func IndexSelectorError() error {
	return &gn.Error{
		Code: errcode.IndexPageSelectorError,
		Msg:  "Pass <em>--index-id</em> or <em>--index-slug</em>",
		Err:  fmt.Errorf("from %s: no index page selector", caller()),
	}
}

// IndexIDNotFoundError is returned when no index page has the id.
func IndexIDNotFoundError(id int64) error {
	msg := "No PublicTransportIndexPage found with id <em>%d</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.IndexPageNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: index page %d not found", caller(), id),
	}
}

// IndexSlugNotFoundError is returned when no index page has the slug.
func IndexSlugNotFoundError(slug string) error {
	msg := "No PublicTransportIndexPage found with slug '<em>%s</em>'"
	vars := []any{slug}
	return &gn.Error{
		Code: errcode.IndexPageNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: index page %q not found", caller(), slug),
	}
}
