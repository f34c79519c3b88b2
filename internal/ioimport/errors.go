package ioimport

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/gnames/transitdb/pkg/geodata"
)

func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name()
}

// DecodeError converts a parsing failure of an input file to a user
// error.
func DecodeError(path string, err error) error {
	code := errcode.InputDecodeError
	msg := "Invalid JSON in <em>%s</em>: %s"
	vars := []any{path, err.Error()}

	switch {
	case errors.Is(err, geodata.ErrNotArray):
		code = errcode.InputNotArrayError
		msg = "Expected a list of station records in <em>%s</em>"
		vars = []any{path}
	case errors.Is(err, geodata.ErrNotFeatureCollection):
		code = errcode.InputNotFeatureCollectionError
		msg = "Expected a GeoJSON FeatureCollection in <em>%s</em>"
		vars = []any{path}
	}

	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", caller(), path, err),
	}
}

// IndexPageNotFoundError is returned for an explicit index page id that
// does not point to an index page.
func IndexPageNotFoundError(id int64) error {
	msg := "No PublicTransportIndexPage found with id <em>%d</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.IndexPageNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: index page %d not found", caller(), id),
	}
}

// CategoryPageNotFoundError is returned for an explicit category page id
// that does not point to a category page.
func CategoryPageNotFoundError(id int64) error {
	msg := "No PublicTransportCategoryPage found with id <em>%d</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.CategoryPageNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: category page %d not found", caller(), id),
	}
}

// HomePageNotFoundError is returned when there is no home page to create
// the index page under.
func HomePageNotFoundError() error {
	msg := `No HomePage found. Create one before importing.

<em>How to fix:</em>
  Run <em>transitdb migrate</em> to recreate the home page`
	return &gn.Error{
		Code: errcode.HomePageNotFoundError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: home page not found", caller()),
	}
}

// IndexSlugTakenError is returned when the index page would collide with
// another child of the home page.
func IndexSlugTakenError(slug string) error {
	msg := `Slug '<em>%s</em>' already exists under the HomePage.

<em>How to fix:</em>
  Pass <em>--index-id</em> to import into an existing index page,
  or choose a different <em>--index-slug</em>`
	vars := []any{slug}
	return &gn.Error{
		Code: errcode.IndexSlugTakenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: slug %q is taken", caller(), slug),
	}
}

// SlugTakenError is returned when a new page collides with a sibling.
func SlugTakenError(err error) error {
	msg := "Cannot create a page: %s"
	vars := []any{err.Error()}
	return &gn.Error{
		Code: errcode.StoreSlugTakenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", caller(), err),
	}
}
