package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// sqliteOperator implements db.Operator on an embedded SQLite file.
type sqliteOperator struct {
	path string
	db   *sqlx.DB
}

// NewSQLiteOperator creates a new SQLite operator (without opening the
// file).
func NewSQLiteOperator() db.Operator {
	return &sqliteOperator{}
}

// Connect opens or creates the database file from cfg.Path.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	if path == "" {
		return OpenFileError(path, fmt.Errorf("database path is empty"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return OpenFileError(path, err)
	}

	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" +
		"&_time_format=sqlite"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return OpenFileError(path, err)
	}
	// SQLite allows one writer, a single connection keeps a transaction
	// and its reads on the same handle.
	conn.SetMaxOpenConns(1)
	sqlDB := sqlx.NewDb(conn, "sqlite3")

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return OpenFileError(path, err)
	}

	s.path = path
	s.db = sqlDB
	return nil
}

func (s *sqliteOperator) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteOperator) DB() *sqlx.DB {
	return s.db
}

func (s *sqliteOperator) Driver() string {
	return db.DriverSQLite
}

func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?`

	var count int
	if err := s.db.GetContext(ctx, &count, query, tableName); err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return count > 0, nil
}

func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	tables, err := s.tables(ctx)
	if err != nil {
		return false, TableCheckError(err)
	}
	return len(tables) > 0, nil
}

func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	if s.db == nil {
		return NotConnectedError()
	}

	tables, err := s.tables(ctx)
	if err != nil {
		return QueryTablesError(err)
	}

	if _, err = s.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return DropTableError("*", err)
	}
	defer s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON")

	for _, table := range tables {
		dropSQL := fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)
		if _, err := s.db.ExecContext(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (s *sqliteOperator) tables(ctx context.Context) ([]string, error) {
	var res []string
	query := `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
	if err := s.db.SelectContext(ctx, &res, query); err != nil {
		return nil, err
	}
	return res, nil
}
