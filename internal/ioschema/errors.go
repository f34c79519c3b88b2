package ioschema

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

// NotConnectedError is returned when the operator has no open database.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without database connection",
		Err:  fmt.Errorf("from %s: not connected to database", caller()),
	}
}

// GORMConnectionError is returned when GORM cannot use the connection
// pool of the operator.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  "Cannot open the schema migrator on the database connection",
		Err:  fmt.Errorf("from %s: %w", caller(), err),
	}
}

func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

Check that the database user may create tables and that the database
file is writable.`
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", caller(), err),
	}
}

func MigrateSchemaError(err error) error {
	msg := `Cannot migrate database schema

Back up the data and run <em>transitdb create</em> if the existing
tables are incompatible.`
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", caller(), err),
	}
}

// SeedError is returned when the tree root or the home page cannot be
// created.
func SeedError(kind string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaSeedError,
		Msg:  "Cannot create the <em>%s</em> page",
		Vars: []any{kind},
		Err:  fmt.Errorf("from %s: seed %s: %w", caller(), kind, err),
	}
}
