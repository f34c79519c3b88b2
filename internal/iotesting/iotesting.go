// Package iotesting provides helpers for tests that need a real store.
package iotesting

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/transitdb/internal/iodb"
	"github.com/gnames/transitdb/internal/ioschema"
	"github.com/gnames/transitdb/internal/iostore"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/stretchr/testify/require"
)

// Config returns a configuration for a SQLite file in a temporary
// directory of the test.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptDatabaseDriver(db.DriverSQLite),
		config.OptDatabasePath(filepath.Join(t.TempDir(), "transitdb.sqlite")),
		config.OptImportWithProgress(false),
	})
	return cfg
}

// NewStore creates a SQLite database with the full schema and seeded
// root and home pages. The database is closed when the test ends.
func NewStore(t *testing.T) (transit.Store, db.Operator) {
	t.Helper()
	ctx := context.Background()
	cfg := Config(t)

	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })

	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	return iostore.New(op), op
}

// Home returns the seeded home page.
func Home(t *testing.T, s transit.Store) *transit.Page {
	t.Helper()
	var res *transit.Page
	err := transit.Atomically(context.Background(), s, true,
		func(sess transit.Session) error {
			pages, err := sess.Pages(context.Background(),
				transit.OfKind(transit.KindHome))
			if err != nil {
				return err
			}
			require.NotEmpty(t, pages)
			res = pages[0]
			return nil
		})
	require.NoError(t, err)
	return res
}
