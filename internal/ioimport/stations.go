// Package ioimport loads transit datasets from disk into the store.
// Every import runs inside one transaction.
package ioimport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/transitdb/internal/iofs"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/geodata"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/gnames/transitdb/pkg/transit"
)

type stationImporter struct {
	store transit.Store
	cfg   *config.Config
}

// NewStationImporter creates an importer of GeoJSON station records.
func NewStationImporter(
	store transit.Store,
	cfg *config.Config,
) lifecycle.StationImporter {
	return &stationImporter{store: store, cfg: cfg}
}

// Import upserts every Point feature that has a composite key.
func (si *stationImporter) Import(
	ctx context.Context,
	path string,
) (lifecycle.StationImportStats, error) {
	var stats lifecycle.StationImportStats
	start := time.Now()

	data, err := iofs.ReadInput(path)
	if err != nil {
		return stats, err
	}
	fc, err := geodata.ParseFeatureCollection(data)
	if err != nil {
		return stats, DecodeError(path, err)
	}

	slog.Info("Importing stations",
		"path", path,
		"features", fc.Total,
		"non_point", fc.NonPoint,
		"dry_run", si.cfg.Import.DryRun,
	)

	var res lifecycle.StationImportStats
	err = transit.Atomically(ctx, si.store, si.cfg.Import.DryRun,
		func(s transit.Session) error {
			res = lifecycle.StationImportStats{
				Processed: fc.Total,
				Skipped:   fc.NonPoint,
			}
			bar := newProgress(si.cfg.Import.WithProgress, len(fc.Points),
				"Importing stations: ")
			defer bar.Finish()

			for _, f := range fc.Points {
				bar.Increment()
				_, created, err := s.Upsert(ctx, f.Key, f.Fields)
				if errors.Is(err, transit.ErrNoCompositeKey) {
					slog.Debug("Skipping station without composite key",
						"station", f.Fields.StationLabel)
					res.Skipped++
					continue
				}
				if err != nil {
					return err
				}
				if created {
					res.Created++
				} else {
					res.Updated++
				}
			}
			return nil
		})
	if err != nil {
		return stats, err
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Stations imported",
		"processed", res.Processed,
		"created", res.Created,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"duration", dur,
	)
	gn.Info("Imported <em>%s</em> stations in %s",
		humanize.Comma(int64(res.Created+res.Updated)), dur)
	return res, nil
}
