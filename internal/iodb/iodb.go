// Package iodb implements database operations for the PostgreSQL and
// SQLite drivers. This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"github.com/gnames/transitdb/pkg/db"
)

// New creates an operator for a driver (without connecting).
func New(driver string) (db.Operator, error) {
	switch driver {
	case db.DriverPostgres:
		return NewPgxOperator(), nil
	case db.DriverSQLite:
		return NewSQLiteOperator(), nil
	default:
		return nil, UnknownDriverError(driver)
	}
}
