// Package iostore implements transit.Store on top of SQL. A session
// wraps one database transaction, so every write of a command is
// committed or rolled back together.
package iostore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/transitdb/pkg/db"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/jmoiron/sqlx"
)

type store struct {
	op db.Operator
}

// New creates a store that opens sessions on a connected operator.
func New(op db.Operator) transit.Store {
	return &store{op: op}
}

// Begin starts a transaction.
func (s *store) Begin(ctx context.Context) (transit.Session, error) {
	sqlDB := s.op.DB()
	if sqlDB == nil {
		return nil, NotConnectedError()
	}
	tx, err := sqlDB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, BeginError(err)
	}
	slog.Debug("Transaction started", "driver", s.op.Driver())
	return &session{
		tx:     tx,
		driver: s.op.Driver(),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// session implements transit.Session.
type session struct {
	tx     *sqlx.Tx
	driver string
	now    func() time.Time
}

func (s *session) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return CommitError(err)
	}
	slog.Debug("Transaction committed")
	return nil
}

// Rollback discards the transaction. Rolling back a finished
// transaction is a no-op.
func (s *session) Rollback() error {
	err := s.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return WriteError("rollback", err)
	}
	slog.Debug("Transaction rolled back")
	return nil
}

func (s *session) get(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	return s.tx.GetContext(ctx, dest, s.tx.Rebind(query), args...)
}

func (s *session) sel(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	return s.tx.SelectContext(ctx, dest, s.tx.Rebind(query), args...)
}

func (s *session) exec(
	ctx context.Context,
	query string,
	args ...any,
) error {
	_, err := s.tx.ExecContext(ctx, s.tx.Rebind(query), args...)
	return err
}
