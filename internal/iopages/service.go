package iopages

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/transit"
)

// Service runs page operations in their own sessions.
type Service struct {
	store transit.Store
	cfg   *config.Config
}

// New creates a Service.
func New(store transit.Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// AddStation creates and publishes a station page under a line page or
// under a system page that shows stations. A zero stationID creates an
// unbound page.
func (sv *Service) AddStation(
	ctx context.Context,
	parentID, stationID int64,
	title, slug string,
) (*transit.Page, error) {
	var res *transit.Page
	err := transit.Atomically(ctx, sv.store, sv.cfg.Import.DryRun,
		func(s transit.Session) error {
			parent, err := page(ctx, s, parentID)
			if err != nil {
				return err
			}

			data := transit.StationPageData{}
			if stationID != 0 {
				data.StationID = &stationID
			}
			p := transit.NewStationPage(title, slug, data)
			if err = SaveStationPage(ctx, s, parent, p); err != nil {
				return err
			}
			if err = s.CreateChild(ctx, parent.ID, p); err != nil {
				return err
			}
			if err = s.Publish(ctx, p); err != nil {
				return err
			}
			res = p
			return nil
		})
	if err != nil {
		return nil, err
	}
	slog.Info("Station page added", "id", res.ID, "url", res.URL())
	return res, nil
}

// BindStation binds an existing station page to a station record and
// publishes it.
func (sv *Service) BindStation(
	ctx context.Context,
	pageID, stationID int64,
) (*transit.Page, error) {
	var res *transit.Page
	err := transit.Atomically(ctx, sv.store, sv.cfg.Import.DryRun,
		func(s transit.Session) error {
			p, err := page(ctx, s, pageID)
			if err != nil {
				return err
			}
			if p.Kind != transit.KindStation {
				return PageKindError(p.ID, p.Kind.String(), "station")
			}
			parent, err := page(ctx, s, p.ParentID)
			if err != nil {
				return err
			}

			if p.Station == nil {
				p.Station = &transit.StationPageData{}
			}
			p.Station.StationID = &stationID
			if err = SaveStationPage(ctx, s, parent, p); err != nil {
				return err
			}
			if err = s.Publish(ctx, p); err != nil {
				return err
			}
			res = p
			return nil
		})
	if err != nil {
		return nil, err
	}
	slog.Info("Station page bound", "id", res.ID, "station_id", stationID)
	return res, nil
}

// SetSystemFilters replaces the system filters of an index page and
// publishes it. Labels are trimmed, sorted and deduplicated.
func (sv *Service) SetSystemFilters(
	ctx context.Context,
	pageID int64,
	systems []string,
) (*transit.Page, error) {
	var res *transit.Page
	err := transit.Atomically(ctx, sv.store, sv.cfg.Import.DryRun,
		func(s transit.Session) error {
			p, err := page(ctx, s, pageID)
			if err != nil {
				return err
			}
			if p.Kind != transit.KindIndex {
				return PageKindError(p.ID, p.Kind.String(), "index")
			}
			if p.Index == nil {
				p.Index = &transit.IndexData{}
			}
			p.Index.SystemFilters = transit.NormalizeFilters(systems)
			if err = s.Publish(ctx, p); err != nil {
				return err
			}
			res = p
			return nil
		})
	if err != nil {
		return nil, err
	}
	slog.Info("System filters updated",
		"id", res.ID, "systems", res.Index.SystemFilters)
	return res, nil
}

// Resolve returns the live page at a path relative to the home page.
func (sv *Service) Resolve(
	ctx context.Context,
	path string,
) (*transit.Page, error) {
	var res *transit.Page
	err := transit.Atomically(ctx, sv.store, true,
		func(s transit.Session) error {
			home, err := homePage(ctx, s)
			if err != nil {
				return err
			}
			res, err = Route(ctx, s, home, path)
			if errors.Is(err, transit.ErrNotFound) {
				return RouteNotFoundError(path)
			}
			return err
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Cards returns station cards of a system or a line page ordered by the
// station sort of the page.
func (sv *Service) Cards(
	ctx context.Context,
	pageID int64,
) (*transit.Page, []Card, error) {
	var p *transit.Page
	var res []Card
	err := transit.Atomically(ctx, sv.store, true,
		func(s transit.Session) error {
			var err error
			p, err = page(ctx, s, pageID)
			if err != nil {
				return err
			}

			var filter transit.StationFilter
			var sortKey string
			switch p.Kind {
			case transit.KindSystem:
				filter.SystemLabel = p.System.SystemLabel
				sortKey = p.System.StationSort
			case transit.KindLine:
				filter.SystemLabel = p.Line.SystemLabel
				filter.LineLabel = p.Line.LineLabel
				sortKey = p.Line.StationSort
			default:
				return PageKindError(p.ID, p.Kind.String(), "system or line")
			}

			stations, err := s.Stations(ctx, filter)
			if err != nil {
				return err
			}
			transit.SortStations(stations, sortKey)
			res, err = BuildStationCards(ctx, s, stations, p)
			return err
		})
	if err != nil {
		return nil, nil, err
	}
	return p, res, nil
}

func page(ctx context.Context, s transit.Session, id int64) (*transit.Page, error) {
	res, err := s.Page(ctx, id)
	if errors.Is(err, transit.ErrNotFound) {
		return nil, PageNotFoundError(id)
	}
	return res, err
}

// homePage prefers a live home page.
func homePage(ctx context.Context, s transit.Session) (*transit.Page, error) {
	pages, err := s.Pages(ctx, transit.OfKind(transit.KindHome))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, RouteNotFoundError("/")
	}
	for _, v := range pages {
		if v.Live {
			return v, nil
		}
	}
	return pages[0], nil
}
