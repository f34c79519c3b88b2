package iopages

import (
	"context"

	"github.com/gnames/transitdb/pkg/transit"
)

// Card pairs a station record with the station page that presents it.
type Card struct {
	Station *transit.StationRecord
	// Page is nil when no station page is bound to the station.
	Page *transit.Page
	// URL is nil when there is no page.
	URL *string
}

// BuildStationCards returns one card per station in the given order.
// A station page bound to the station below scope is preferred over a
// bound page elsewhere. Under a system page that shows stations the URL
// is nested under the system page.
func BuildStationCards(
	ctx context.Context,
	s transit.Session,
	stations []*transit.StationRecord,
	scope *transit.Page,
) ([]Card, error) {
	all, err := s.Pages(ctx, bound)
	if err != nil {
		return nil, err
	}
	pageMap := byStation(all)

	scoped := make(map[int64]*transit.Page)
	if scope != nil {
		pages, err := s.Descendants(ctx, scope.ID, bound)
		if err != nil {
			return nil, err
		}
		scoped = byStation(pages)
	}

	nested := scope != nil && scope.Kind == transit.KindSystem &&
		scope.System.ShowStations

	res := make([]Card, 0, len(stations))
	for _, st := range stations {
		card := Card{Station: st}
		page, ok := scoped[st.ID]
		if !ok {
			page = pageMap[st.ID]
		}
		if page != nil {
			url := page.URL()
			if nested {
				url = scope.URL() + page.Slug + "/"
			}
			card.Page = page
			card.URL = &url
		}
		res = append(res, card)
	}
	return res, nil
}

func bound(p *transit.Page) bool {
	return p.Kind == transit.KindStation && p.Station != nil &&
		p.Station.StationID != nil
}

// byStation maps station ids to pages, the first page wins.
func byStation(pages []*transit.Page) map[int64]*transit.Page {
	res := make(map[int64]*transit.Page)
	for _, p := range pages {
		id := *p.Station.StationID
		if _, ok := res[id]; !ok {
			res[id] = p
		}
	}
	return res
}
