// Package iosync mirrors canonical station data into system and line
// pages of the content tree.
package iosync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/gnames/transitdb/pkg/slug"
	"github.com/gnames/transitdb/pkg/transit"
)

type synchronizer struct {
	store transit.Store
	cfg   *config.Config
}

// New creates a Synchronizer.
func New(store transit.Store, cfg *config.Config) lifecycle.Synchronizer {
	return &synchronizer{store: store, cfg: cfg}
}

// Sync finds or creates a system page for every selected system and a
// line page for every line of it. Existing pages are written only when
// their data drifted from the station store.
func (sy *synchronizer) Sync(
	ctx context.Context,
	params lifecycle.SyncParams,
) (lifecycle.SyncStats, error) {
	var res lifecycle.SyncStats
	start := time.Now()

	err := transit.Atomically(ctx, sy.store, sy.cfg.Import.DryRun,
		func(s transit.Session) error {
			stats := lifecycle.SyncStats{}
			index, err := indexPage(ctx, s, params)
			if err != nil {
				return err
			}

			systems, err := systemLabels(ctx, s, index, params.AllSystems)
			if err != nil {
				return err
			}
			stats.Systems = systems

			kids, err := s.Children(ctx, index.ID, nil)
			if err != nil {
				return err
			}
			taken := slug.NewSet()
			for _, v := range kids {
				taken.Add(v.Slug)
			}

			for _, label := range systems {
				sys, err := syncSystem(ctx, s, index, label, taken, &stats)
				if err != nil {
					return err
				}
				if err = syncLines(ctx, s, sys, label, &stats); err != nil {
					return err
				}
			}
			res = stats
			return nil
		})
	if err != nil {
		return lifecycle.SyncStats{}, err
	}

	slog.Info("Transport pages synchronized",
		"systems", len(res.Systems),
		"systems_created", res.SystemsCreated,
		"systems_updated", res.SystemsUpdated,
		"lines_created", res.LinesCreated,
		"lines_updated", res.LinesUpdated,
		"dry_run", sy.cfg.Import.DryRun,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

func indexPage(
	ctx context.Context,
	s transit.Session,
	params lifecycle.SyncParams,
) (*transit.Page, error) {
	switch {
	case params.IndexID != 0:
		p, err := s.Page(ctx, params.IndexID)
		if errors.Is(err, transit.ErrNotFound) ||
			(err == nil && p.Kind != transit.KindIndex) {
			return nil, IndexIDNotFoundError(params.IndexID)
		}
		return p, err
	case params.IndexSlug != "":
		found, err := s.Pages(ctx, transit.All(
			transit.OfKind(transit.KindIndex),
			transit.WithSlug(params.IndexSlug),
		))
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, IndexSlugNotFoundError(params.IndexSlug)
		}
		return found[0], nil
	default:
		return nil, IndexSelectorError()
	}
}

// systemLabels returns sorted distinct non-empty labels either from the
// station store or from the filters of the index page.
func systemLabels(
	ctx context.Context,
	s transit.Session,
	index *transit.Page,
	all bool,
) ([]string, error) {
	if all {
		return s.SystemLabels(ctx)
	}

	return transit.NormalizeFilters(index.Index.SystemFilters), nil
}

func syncSystem(
	ctx context.Context,
	s transit.Session,
	index *transit.Page,
	label string,
	taken slug.Set,
	stats *lifecycle.SyncStats,
) (*transit.Page, error) {
	qid, err := s.SystemQID(ctx, label)
	if err != nil {
		return nil, err
	}

	found, err := s.Children(ctx, index.ID, func(p *transit.Page) bool {
		return p.Kind == transit.KindSystem && p.System.SystemLabel == label
	})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		sl := slug.Allocate(slug.Request{Title: label, Fallback: "item"}, taken)
		taken.Add(sl)
		page := transit.NewSystemPage(label, sl, transit.SystemData{
			SystemLabel: label,
			SystemQID:   qid,
		})
		if err = createPublished(ctx, s, index.ID, page); err != nil {
			return nil, err
		}
		slog.Debug("Created system page", "system", label, "id", page.ID)
		stats.SystemsCreated++
		return page, nil
	}

	page := found[0]
	changed := false
	if page.Title != label {
		page.Title = label
		changed = true
	}
	if page.System.SystemQID != qid {
		page.System.SystemQID = qid
		changed = true
	}
	if changed {
		if err = s.Publish(ctx, page); err != nil {
			return nil, err
		}
		slog.Debug("Updated system page", "system", label, "id", page.ID)
		stats.SystemsUpdated++
	}
	return page, nil
}

func syncLines(
	ctx context.Context,
	s transit.Session,
	sys *transit.Page,
	system string,
	stats *lifecycle.SyncStats,
) error {
	lines, err := s.Lines(ctx, system)
	if err != nil {
		return err
	}

	kids, err := s.Children(ctx, sys.ID, nil)
	if err != nil {
		return err
	}
	taken := slug.NewSet()
	byLabel := make(map[string]*transit.Page)
	for _, v := range kids {
		taken.Add(v.Slug)
		if v.Kind != transit.KindLine {
			continue
		}
		if _, ok := byLabel[v.Line.LineLabel]; !ok {
			byLabel[v.Line.LineLabel] = v
		}
	}

	for _, line := range lines {
		page, ok := byLabel[line.LineLabel]
		if !ok {
			sl := slug.Allocate(slug.Request{
				Title: line.LineLabel, Fallback: "item"}, taken)
			taken.Add(sl)
			page = transit.NewLinePage(line.LineLabel, sl, transit.LineData{
				LineLabel:   line.LineLabel,
				LineQID:     line.LineQID,
				SystemLabel: system,
			})
			if err = createPublished(ctx, s, sys.ID, page); err != nil {
				return err
			}
			byLabel[line.LineLabel] = page
			stats.LinesCreated++
			continue
		}

		changed := false
		if page.Title != line.LineLabel {
			page.Title = line.LineLabel
			changed = true
		}
		if page.Line.LineQID != line.LineQID {
			page.Line.LineQID = line.LineQID
			changed = true
		}
		if page.Line.SystemLabel != system {
			page.Line.SystemLabel = system
			changed = true
		}
		if changed {
			if err = s.Publish(ctx, page); err != nil {
				return err
			}
			stats.LinesUpdated++
		}
	}
	return nil
}

func createPublished(
	ctx context.Context,
	s transit.Session,
	parentID int64,
	p *transit.Page,
) error {
	if err := s.CreateChild(ctx, parentID, p); err != nil {
		return err
	}
	return s.Publish(ctx, p)
}
