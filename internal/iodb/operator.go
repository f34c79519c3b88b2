package iodb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// pgxOperator keeps a pgxpool and an sqlx handle on top of it.
type pgxOperator struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

// NewPgxOperator creates a PostgreSQL operator (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// dsn builds a connection URL, user and password are escaped.
func dsn(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// Connect opens a small pool, one transaction runs at a time.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	connErr := func(err error) error {
		return ConnectionError(cfg.Host, cfg.Port, cfg.Database, cfg.User, err)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return connErr(err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return connErr(err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return connErr(err)
	}

	p.pool = pool
	p.db = sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return nil
}

func (p *pgxOperator) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return err
}

func (p *pgxOperator) DB() *sqlx.DB {
	return p.db
}

func (p *pgxOperator) Driver() string {
	return db.DriverPostgres
}

func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	q := `SELECT EXISTS (
  SELECT FROM information_schema.tables
    WHERE table_schema = 'public'
    AND table_name = $1
)`
	var res bool
	if err := p.db.GetContext(ctx, &res, q, tableName); err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return res, nil
}

// HasTables looks for any table in the public schema.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	q := `SELECT EXISTS (
  SELECT FROM information_schema.tables WHERE table_schema = 'public'
)`
	var res bool
	if err := p.db.GetContext(ctx, &res, q); err != nil {
		return false, TableCheckError(err)
	}
	return res, nil
}

// DropAllTables drops every table of the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.db == nil {
		return NotConnectedError()
	}

	var tables []string
	q := `SELECT tablename FROM pg_tables WHERE schemaname = 'public'`
	if err := p.db.SelectContext(ctx, &tables, q); err != nil {
		return QueryTablesError(err)
	}

	for _, v := range tables {
		q = fmt.Sprintf(`DROP TABLE IF EXISTS "%s" CASCADE`, v)
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return DropTableError(v, err)
		}
	}
	return nil
}
