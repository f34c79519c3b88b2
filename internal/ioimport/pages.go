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
	"github.com/gnames/transitdb/pkg/slug"
	"github.com/gnames/transitdb/pkg/transit"
)

// UnnamedStation is the title of records without a name.
const UnnamedStation = "Unnamed station"

type pageImporter struct {
	store transit.Store
	cfg   *config.Config
}

// NewPageImporter creates an importer of legacy station pages.
func NewPageImporter(
	store transit.Store,
	cfg *config.Config,
) lifecycle.PageImporter {
	return &pageImporter{store: store, cfg: cfg}
}

// run holds the state of one reconciliation pass.
type run struct {
	sess     transit.Session
	params   lifecycle.PageImportParams
	category *transit.Page
	// byWikidata maps external ids to legacy pages, existing ones and
	// those created during the run.
	byWikidata map[string]*transit.Page
	taken      slug.Set
	stats      lifecycle.PageImportStats
}

// Import creates a legacy page for every new record of the flat dataset
// and merges line values of records that already have a page.
func (pi *pageImporter) Import(
	ctx context.Context,
	params lifecycle.PageImportParams,
) (lifecycle.PageImportStats, error) {
	var stats lifecycle.PageImportStats
	start := time.Now()

	data, err := iofs.ReadInput(params.Path)
	if err != nil {
		return stats, err
	}
	recs, err := geodata.ParseFlat(data)
	if err != nil {
		return stats, DecodeError(params.Path, err)
	}

	if pi.cfg.Import.DryRun {
		gn.Info("Dry run: no pages will be created.")
	}

	err = transit.Atomically(ctx, pi.store, pi.cfg.Import.DryRun,
		func(s transit.Session) error {
			r, err := pi.prepare(ctx, s, params)
			if err != nil {
				return err
			}

			bar := newProgress(pi.cfg.Import.WithProgress, len(recs),
				"Importing pages: ")
			defer bar.Finish()
			for _, rec := range recs {
				bar.Increment()
				if err := r.reconcile(ctx, rec); err != nil {
					return err
				}
			}
			stats = r.stats
			return nil
		})
	if err != nil {
		return lifecycle.PageImportStats{}, err
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Station pages imported",
		"candidates", stats.Candidates,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"dry_run", pi.cfg.Import.DryRun,
		"duration", dur,
	)
	gn.Info("Reconciled <em>%s</em> records in %s",
		humanize.Comma(int64(len(recs))), dur)
	return stats, nil
}

func (pi *pageImporter) prepare(
	ctx context.Context,
	s transit.Session,
	params lifecycle.PageImportParams,
) (*run, error) {
	index, err := indexPage(ctx, s, params)
	if err != nil {
		return nil, err
	}
	category, err := categoryPage(ctx, s, index, params)
	if err != nil {
		return nil, err
	}

	legacy, err := s.Pages(ctx, transit.OfKind(transit.KindLegacyStation))
	if err != nil {
		return nil, err
	}
	byWikidata := make(map[string]*transit.Page)
	for _, p := range legacy {
		id := p.Legacy.WikidataID
		if _, ok := byWikidata[id]; id != "" && !ok {
			byWikidata[id] = p
		}
	}

	kids, err := s.Children(ctx, category.ID, nil)
	if err != nil {
		return nil, err
	}
	taken := slug.NewSet()
	for _, p := range kids {
		taken.Add(p.Slug)
	}

	return &run{
		sess:       s,
		params:     params,
		category:   category,
		byWikidata: byWikidata,
		taken:      taken,
	}, nil
}

func (r *run) reconcile(ctx context.Context, rec geodata.FlatRecord) error {
	if r.params.System != "" && rec.System != "" &&
		rec.System != r.params.System {
		return nil
	}
	r.stats.Candidates++

	if rec.WikidataID != "" {
		if page, ok := r.byWikidata[rec.WikidataID]; ok {
			return r.merge(ctx, page, rec)
		}
	}

	title := rec.Name
	if title == "" {
		title = UnnamedStation
	}
	sl := slug.Allocate(slug.Request{
		Title:       title,
		StationCode: rec.StationCode,
		ExternalID:  rec.WikidataID,
		Fallback:    "station",
	}, r.taken)
	r.taken.Add(sl)

	page := transit.NewLegacyPage(title, sl, transit.LegacyData{
		Category:    r.params.Category,
		System:      rec.System,
		Line:        rec.Line,
		StationCode: rec.StationCode,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		WikidataID:  rec.WikidataID,
		WikidataURL: rec.WikidataURL,
	})
	if err := createPublished(ctx, r.sess, r.category.ID, page); err != nil {
		return err
	}
	r.stats.Created++
	if rec.WikidataID != "" {
		r.byWikidata[rec.WikidataID] = page
	}
	return nil
}

// merge adds the line of a duplicate record to its existing page.
func (r *run) merge(
	ctx context.Context,
	page *transit.Page,
	rec geodata.FlatRecord,
) error {
	merged := transit.MergeLines(page.Legacy.Line, rec.Line)
	if merged == page.Legacy.Line {
		r.stats.Skipped++
		return nil
	}

	page.Legacy.Line = merged
	if err := r.sess.Publish(ctx, page); err != nil {
		return err
	}
	slog.Debug("Merged station line",
		"page_id", page.ID, "wikidata_id", rec.WikidataID, "line", merged)
	r.stats.Updated++
	return nil
}

func createPublished(
	ctx context.Context,
	s transit.Session,
	parentID int64,
	p *transit.Page,
) error {
	err := s.CreateChild(ctx, parentID, p)
	if errors.Is(err, transit.ErrSlugTaken) {
		return SlugTakenError(err)
	}
	if err != nil {
		return err
	}
	return s.Publish(ctx, p)
}

func indexPage(
	ctx context.Context,
	s transit.Session,
	params lifecycle.PageImportParams,
) (*transit.Page, error) {
	if params.IndexID != 0 {
		p, err := s.Page(ctx, params.IndexID)
		if errors.Is(err, transit.ErrNotFound) ||
			(err == nil && p.Kind != transit.KindIndex) {
			return nil, IndexPageNotFoundError(params.IndexID)
		}
		return p, err
	}

	found, err := s.Pages(ctx, transit.All(
		transit.OfKind(transit.KindIndex),
		transit.WithSlug(params.IndexSlug),
	))
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	home, err := homePage(ctx, s)
	if err != nil {
		return nil, err
	}
	taken, err := s.Children(ctx, home.ID, transit.WithSlug(params.IndexSlug))
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, IndexSlugTakenError(params.IndexSlug)
	}

	res := transit.NewIndexPage(params.IndexTitle, params.IndexSlug,
		transit.IndexData{})
	if err = createPublished(ctx, s, home.ID, res); err != nil {
		return nil, err
	}
	slog.Info("Created index page", "id", res.ID, "slug", res.Slug)
	return res, nil
}

// homePage prefers a live home page.
func homePage(ctx context.Context, s transit.Session) (*transit.Page, error) {
	homes, err := s.Pages(ctx, transit.OfKind(transit.KindHome))
	if err != nil {
		return nil, err
	}
	if len(homes) == 0 {
		return nil, HomePageNotFoundError()
	}
	for _, v := range homes {
		if v.Live {
			return v, nil
		}
	}
	return homes[0], nil
}

func categoryPage(
	ctx context.Context,
	s transit.Session,
	index *transit.Page,
	params lifecycle.PageImportParams,
) (*transit.Page, error) {
	if params.CategoryID != 0 {
		p, err := s.Page(ctx, params.CategoryID)
		if errors.Is(err, transit.ErrNotFound) ||
			(err == nil && p.Kind != transit.KindCategory) {
			return nil, CategoryPageNotFoundError(params.CategoryID)
		}
		return p, err
	}

	found, err := s.Children(ctx, index.ID, transit.All(
		transit.OfKind(transit.KindCategory),
		transit.WithSlug(params.CategorySlug),
	))
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	res := transit.NewCategoryPage(params.Category, params.CategorySlug,
		transit.CategoryData{Category: params.Category, System: params.System})
	if err = createPublished(ctx, s, index.ID, res); err != nil {
		return nil, err
	}
	slog.Info("Created category page", "id", res.ID, "slug", res.Slug)
	return res, nil
}
