package iostore

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

// NotConnectedError is returned when a session is requested from a
// store whose operator has no open database.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Store is not connected to a database",
		Err:  fmt.Errorf("from %s: operator is not connected", caller()),
	}
}

// BeginError is returned when a transaction cannot be started.
func BeginError(err error) error {
	return &gn.Error{
		Code: errcode.StoreBeginError,
		Msg:  "Cannot start a database transaction",
		Err:  fmt.Errorf("from %s: begin: %w", caller(), err),
	}
}

// CommitError is returned when a transaction cannot be committed.
func CommitError(err error) error {
	msg := `Cannot commit the transaction, no changes were saved

<em>How to fix:</em>
  1. Check database logs for details
  2. Make sure no other process writes to the database`
	return &gn.Error{
		Code: errcode.StoreCommitError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: commit: %w", caller(), err),
	}
}

// QueryError is returned when reading from the store fails.
func QueryError(what string, err error) error {
	msg := "Cannot read <em>%s</em> from the database"
	vars := []any{what}
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: query %s: %w", caller(), what, err),
	}
}

// WriteError is returned when writing to the store fails.
func WriteError(what string, err error) error {
	msg := "Cannot write <em>%s</em> to the database"
	vars := []any{what}
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", caller(), what, err),
	}
}

// ValidationError is returned when a station record breaks field limits
// or coordinate ranges.
func ValidationError(key string, err error) error {
	msg := `Station record <em>%s</em> is invalid:
%s`
	vars := []any{key, err.Error()}
	return &gn.Error{
		Code: errcode.StoreValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: invalid station %s: %w", caller(), key, err),
	}
}
