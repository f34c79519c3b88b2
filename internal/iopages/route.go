package iopages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/transitdb/pkg/transit"
)

// Route resolves a path relative to the home page to a live page.
// System pages that show stations also resolve slugs of station pages
// placed anywhere below them.
func Route(
	ctx context.Context,
	s transit.Session,
	home *transit.Page,
	path string,
) (*transit.Page, error) {
	var segs []string
	for _, v := range strings.Split(path, "/") {
		if v != "" {
			segs = append(segs, v)
		}
	}
	res, err := route(ctx, s, home, segs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func route(
	ctx context.Context,
	s transit.Session,
	page *transit.Page,
	segs []string,
) (*transit.Page, error) {
	if len(segs) == 0 {
		if !page.Live {
			return nil, transit.ErrNotFound
		}
		return page, nil
	}

	kids, err := s.Children(ctx, page.ID, transit.WithSlug(segs[0]))
	if err != nil {
		return nil, err
	}
	if len(kids) > 0 {
		res, err := route(ctx, s, kids[0], segs[1:])
		if err == nil || !errors.Is(err, transit.ErrNotFound) {
			return res, err
		}
	}

	if page.Kind == transit.KindSystem && page.System.ShowStations &&
		len(segs) == 1 {
		found, err := s.Descendants(ctx, page.ID, transit.All(
			transit.OfKind(transit.KindStation),
			transit.WithSlug(segs[0]),
			func(p *transit.Page) bool { return p.Live },
		))
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found[0], nil
		}
	}
	return nil, transit.ErrNotFound
}
