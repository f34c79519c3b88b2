// Package iopages implements behavior of station pages: binding rules
// on save, routing with the station fallback of system pages, and
// station cards of system and line pages.
package iopages

import (
	"context"
	"errors"

	"github.com/gnames/transitdb/pkg/slug"
	"github.com/gnames/transitdb/pkg/transit"
)

// SaveStationPage applies binding rules to a station page that is about
// to be saved under parent:
//   - under a line page ParentLineDisplay follows the line title;
//   - a system page must show stations to hold station pages;
//   - a bound page with an empty title, or with the label of the
//     previously bound station, takes the label of the current station.
//
// It does not write anything.
func SaveStationPage(
	ctx context.Context,
	s transit.Session,
	parent *transit.Page,
	p *transit.Page,
) error {
	if p.Kind != transit.KindStation {
		return PageKindError(p.ID, p.Kind.String(), "station")
	}
	if p.Station == nil {
		p.Station = &transit.StationPageData{}
	}

	switch parent.Kind {
	case transit.KindLine:
		p.Station.ParentLineDisplay = parent.Title
	case transit.KindSystem:
		if !parent.System.ShowStations {
			return ValidationError("This system page is not set to show stations.")
		}
	default:
		return ValidationError(
			"Station pages belong under line pages or system pages.")
	}

	if p.Station.StationID != nil {
		station, err := s.Station(ctx, *p.Station.StationID)
		if errors.Is(err, transit.ErrNotFound) {
			return StationNotFoundError(*p.Station.StationID)
		}
		if err != nil {
			return err
		}

		prevLabel, err := previousLabel(ctx, s, p.ID)
		if err != nil {
			return err
		}
		if p.Title == "" || p.Title == prevLabel {
			p.Title = station.StationLabel
		}
	}

	if p.Slug == "" {
		p.Slug = slug.Slugify(p.Title)
	}
	if p.Title == "" || p.Slug == "" {
		return ValidationError("Station page needs a title.")
	}
	return nil
}

// previousLabel returns the label of the station the stored page is
// bound to.
func previousLabel(
	ctx context.Context,
	s transit.Session,
	pageID int64,
) (string, error) {
	if pageID == 0 {
		return "", nil
	}
	prev, err := s.Page(ctx, pageID)
	if errors.Is(err, transit.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if prev.Station == nil || prev.Station.StationID == nil {
		return "", nil
	}
	station, err := s.Station(ctx, *prev.Station.StationID)
	if errors.Is(err, transit.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return station.StationLabel, nil
}
