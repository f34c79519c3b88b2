package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/iodb"
	"github.com/gnames/transitdb/internal/iostore"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/gnames/transitdb/pkg/transit"
)

// connect opens the configured database.
func connect(ctx context.Context) (db.Operator, error) {
	op, err := iodb.New(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	if op.Driver() == db.DriverSQLite {
		gn.Info("Connected to database: <em>%s</em>", cfg.Database.Path)
	} else {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}
	return op, nil
}

// openStore connects to a database that already has the schema.
func openStore(ctx context.Context) (transit.Store, db.Operator, error) {
	op, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, nil, err
	}
	if !hasTables {
		op.Close()
		return nil, nil, iodb.EmptyDatabaseError(location())
	}
	return iostore.New(op), op, nil
}

func location() string {
	if cfg.Database.Driver == db.DriverSQLite {
		return cfg.Database.Path
	}
	return cfg.Database.Host + "/" + cfg.Database.Database
}
