// Package ioschema implements SchemaManager interface for
// database schema management. PostgreSQL schema is handled by GORM
// AutoMigrate, SQLite schema by DDL generated from model tags.
package ioschema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/gnames/transitdb/pkg/schema"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the database schema and seeds the root and home pages.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.apply(ctx, CreateSchemaError); err != nil {
		return err
	}
	return m.seed(ctx)
}

// Migrate updates the database schema to the latest version. Missing
// root or home pages are recreated.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.apply(ctx, MigrateSchemaError); err != nil {
		return err
	}
	return m.seed(ctx)
}

func (m *manager) apply(
	ctx context.Context,
	wrap func(error) error,
) error {
	sqlDB := m.operator.DB()
	if sqlDB == nil {
		return NotConnectedError()
	}

	if m.operator.Driver() == db.DriverPostgres {
		gormDB, err := gorm.Open(
			postgres.New(postgres.Config{Conn: sqlDB.DB}),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
		)
		if err != nil {
			return GORMConnectionError(err)
		}
		if err = schema.Migrate(gormDB.WithContext(ctx)); err != nil {
			return wrap(err)
		}
		return nil
	}

	for _, model := range schema.AllModels() {
		stmts := append([]string{model.TableDDL()}, model.IndexDDL()...)
		for _, stmt := range stmts {
			if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
				return wrap(fmt.Errorf("%s: %w", model.TableName(), err))
			}
		}
	}
	return nil
}

// seed makes sure the tree has a root and a live home page under it.
func (m *manager) seed(ctx context.Context) error {
	sqlDB := m.operator.DB()

	rootID, err := m.ensurePage(ctx, sqlDB, sql.NullInt64{},
		transit.KindRoot, "Root", "root", "/")
	if err != nil {
		return SeedError(transit.KindRoot.String(), err)
	}

	parent := sql.NullInt64{Int64: rootID, Valid: true}
	_, err = m.ensurePage(ctx, sqlDB, parent,
		transit.KindHome, "Home", "home", "/home/")
	if err != nil {
		return SeedError(transit.KindHome.String(), err)
	}
	return nil
}

func (m *manager) ensurePage(
	ctx context.Context,
	sqlDB *sqlx.DB,
	parentID sql.NullInt64,
	kind transit.Kind,
	title, slug, urlPath string,
) (int64, error) {
	var id int64
	var err error
	if parentID.Valid {
		err = sqlDB.GetContext(ctx, &id, sqlDB.Rebind(
			`SELECT id FROM pages WHERE parent_id = ? AND kind = ?
			 ORDER BY id LIMIT 1`), parentID.Int64, kind.String())
	} else {
		err = sqlDB.GetContext(ctx, &id, sqlDB.Rebind(
			`SELECT id FROM pages WHERE parent_id IS NULL AND kind = ?
			 ORDER BY id LIMIT 1`), kind.String())
	}
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	now := time.Now().UTC()
	q := sqlDB.Rebind(`INSERT INTO pages
		(parent_id, kind, title, slug, live, url_path, position, data,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err = sqlDB.GetContext(ctx, &id, q, parentID, kind.String(), title,
		slug, true, urlPath, 1, "{}", now, now)
	if err != nil {
		return 0, err
	}
	slog.Info("Seeded page", "kind", kind.String(), "id", id)
	return id, nil
}
