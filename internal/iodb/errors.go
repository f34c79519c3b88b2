package iodb

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

// ConnectionError is returned when PostgreSQL cannot be reached.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d/%s</em> as <em>%s</em>

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready -h %s</em>
  2. Review the database section of ~/.config/transitdb/config.yaml
  3. Or switch to the embedded store: <em>TRANSITDB_DATABASE_DRIVER=sqlite</em>`
	vars := []any{host, port, database, user, host}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			caller(), host, port, database, err),
	}
}

// OpenFileError is returned when a SQLite database cannot be opened.
func OpenFileError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", caller(), path, err),
	}
}

// UnknownDriverError is returned for unsupported database drivers.
func UnknownDriverError(driver string) error {
	msg := "Database driver <em>%s</em> is not supported, " +
		"use 'postgres' or 'sqlite'"
	vars := []any{driver}
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown driver %q", caller(), driver),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: not connected to database", caller()),
	}
}

// EmptyDatabaseError is returned when the schema has not been created.
func EmptyDatabaseError(location string) error {
	msg := `Database <em>%s</em> has no tables

Run <em>transitdb create</em> first to initialize the schema.`
	vars := []any{location}
	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: database %s has no tables",
			caller(), location),
	}
}

func TableCheckError(err error) error {
	msg := "Cannot verify database state"
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot check database tables: %w",
			caller(), err),
	}
}

func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot check table %s: %w",
			caller(), table, err),
	}
}

func QueryTablesError(err error) error {
	msg := "Cannot list database tables"
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot query tables: %w",
			caller(), err),
	}
}

func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot drop table %s: %w",
			caller(), table, err),
	}
}
