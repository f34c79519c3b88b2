package iopages_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/iopages"
	"github.com/gnames/transitdb/internal/iotesting"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tree struct {
	store    transit.Store
	cfg      *config.Config
	index    *transit.Page
	system   *transit.Page
	hidden   *transit.Page
	line     *transit.Page
	siam     *transit.Page
	stations map[string]int64
}

// setup builds home/public-transport/bts/sukhumvit/siam with a hidden
// system page next to bts and four station records.
func setup(t *testing.T) *tree {
	t.Helper()
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	home := iotesting.Home(t, store)
	res := &tree{
		store:    store,
		cfg:      iotesting.Config(t),
		stations: make(map[string]int64),
	}

	err := transit.Atomically(ctx, store, false, func(s transit.Session) error {
		recs := []struct {
			name, qid, lineQID, label, line string
		}{
			{"siam", "Q100", "L1", "Siam", "Sukhumvit"},
			{"siam-silom", "Q100", "L2", "Siam", "Silom"},
			{"asok", "Q101", "L1", "Asok", "Sukhumvit"},
			{"mochit", "Q102", "L1", "Mo Chit", "Sukhumvit"},
		}
		for _, v := range recs {
			rec, _, err := s.Upsert(ctx,
				transit.StationKey{StationQID: v.qid, LineQID: v.lineQID},
				transit.StationFields{
					StationLabel: v.label,
					SystemLabel:  "BTS",
					LineLabel:    v.line,
				})
			require.NoError(t, err)
			res.stations[v.name] = rec.ID
		}

		res.index = transit.NewIndexPage("Public Transport", "public-transport",
			transit.IndexData{SystemFilters: []string{"BTS"}})
		res.system = transit.NewSystemPage("BTS", "bts",
			transit.SystemData{SystemLabel: "BTS", ShowStations: true})
		res.hidden = transit.NewSystemPage("MRT", "mrt",
			transit.SystemData{SystemLabel: "MRT"})
		res.line = transit.NewLinePage("Sukhumvit", "sukhumvit",
			transit.LineData{LineLabel: "Sukhumvit", SystemLabel: "BTS"})
		siamID := res.stations["siam"]
		res.siam = transit.NewStationPage("Siam", "siam",
			transit.StationPageData{StationID: &siamID})

		steps := []struct {
			parent *transit.Page
			page   *transit.Page
		}{
			{home, res.index},
			{res.index, res.system},
			{res.index, res.hidden},
			{res.system, res.line},
			{res.line, res.siam},
		}
		for _, v := range steps {
			require.NoError(t, s.CreateChild(ctx, v.parent.ID, v.page))
			require.NoError(t, s.Publish(ctx, v.page))
		}
		return nil
	})
	require.NoError(t, err)
	return res
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, err.Error())
	return gnErr.Code
}

func TestAddStation(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	p, err := sv.AddStation(ctx, tr.line.ID, tr.stations["mochit"], "", "")
	require.NoError(t, err)
	assert.Equal(t, "Mo Chit", p.Title)
	assert.Equal(t, "mo-chit", p.Slug)
	assert.Equal(t, "Sukhumvit", p.Station.ParentLineDisplay)
	assert.True(t, p.Live)
	assert.Equal(t, "/public-transport/bts/sukhumvit/mo-chit/", p.URL())

	p, err = sv.AddStation(ctx, tr.system.ID, tr.stations["asok"],
		"Asok Interchange", "")
	require.NoError(t, err)
	assert.Equal(t, "Asok Interchange", p.Title)
	assert.Equal(t, "asok-interchange", p.Slug)
	assert.Empty(t, p.Station.ParentLineDisplay)

	tests := []struct {
		msg       string
		parentID  int64
		stationID int64
		title     string
		code      gn.ErrorCode
	}{
		{"hidden system", tr.hidden.ID, tr.stations["asok"], "",
			errcode.StationPageValidationError},
		{"index parent", tr.index.ID, tr.stations["asok"], "",
			errcode.StationPageValidationError},
		{"no station", tr.line.ID, 9999, "", errcode.StationNotFoundError},
		{"no parent", 9999, tr.stations["asok"], "", errcode.PageNotFoundError},
		{"unbound without title", tr.line.ID, 0, "",
			errcode.StationPageValidationError},
	}
	for _, v := range tests {
		_, err := sv.AddStation(ctx, v.parentID, v.stationID, v.title, "")
		assert.Equal(t, v.code, errCode(t, err), v.msg)
	}
}

func TestBindStation(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	// title follows the station while it matches the previous label
	p, err := sv.BindStation(ctx, tr.siam.ID, tr.stations["asok"])
	require.NoError(t, err)
	assert.Equal(t, "Asok", p.Title)
	assert.Equal(t, "siam", p.Slug)
	assert.Equal(t, tr.stations["asok"], *p.Station.StationID)

	err = transit.Atomically(ctx, tr.store, false, func(s transit.Session) error {
		p.Title = "Asok Junction"
		return s.Save(ctx, p)
	})
	require.NoError(t, err)

	p, err = sv.BindStation(ctx, tr.siam.ID, tr.stations["mochit"])
	require.NoError(t, err)
	assert.Equal(t, "Asok Junction", p.Title)

	_, err = sv.BindStation(ctx, tr.line.ID, tr.stations["asok"])
	assert.Equal(t, errcode.PageKindError, errCode(t, err))
}

func TestBindStationDryRun(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	tr.cfg.Update([]config.Option{config.OptImportDryRun(true)})
	sv := iopages.New(tr.store, tr.cfg)

	p, err := sv.BindStation(ctx, tr.siam.ID, tr.stations["asok"])
	require.NoError(t, err)
	assert.Equal(t, "Asok", p.Title)

	got, err := sv.Resolve(ctx, "/public-transport/bts/sukhumvit/siam/")
	require.NoError(t, err)
	assert.Equal(t, "Siam", got.Title)
	assert.Equal(t, tr.stations["siam"], *got.Station.StationID)
}

func TestSetSystemFilters(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	p, err := sv.SetSystemFilters(ctx, tr.index.ID,
		[]string{"MRT ", "BTS", "", "MRT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BTS", "MRT"}, p.Index.SystemFilters)

	err = transit.Atomically(ctx, tr.store, true, func(s transit.Session) error {
		got, err := s.Page(ctx, tr.index.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"BTS", "MRT"}, got.Index.SystemFilters)
		assert.True(t, got.Live)
		return nil
	})
	require.NoError(t, err)

	_, err = sv.SetSystemFilters(ctx, tr.system.ID, []string{"BTS"})
	assert.Equal(t, errcode.PageKindError, errCode(t, err))
	_, err = sv.SetSystemFilters(ctx, 9999, []string{"BTS"})
	assert.Equal(t, errcode.PageNotFoundError, errCode(t, err))
}

func TestResolveNonASCIIAncestor(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	var blue, other *transit.Page
	err := transit.Atomically(ctx, tr.store, false, func(s transit.Session) error {
		tr.index.Slug = "ขนส่ง"
		if err := s.Publish(ctx, tr.index); err != nil {
			return err
		}
		blue = transit.NewLinePage("สายสีน้ำเงิน", "สายสีน้ำเงิน",
			transit.LineData{LineLabel: "Sukhumvit", SystemLabel: "BTS"})
		if err := s.CreateChild(ctx, tr.hidden.ID, blue); err != nil {
			return err
		}
		siamID := tr.stations["siam"]
		other = transit.NewStationPage("Siam", "siam",
			transit.StationPageData{StationID: &siamID})
		if err := s.CreateChild(ctx, blue.ID, other); err != nil {
			return err
		}
		return s.Publish(ctx, other)
	})
	require.NoError(t, err)

	got, err := sv.Resolve(ctx, "/ขนส่ง/bts/siam/")
	require.NoError(t, err)
	assert.Equal(t, tr.siam.ID, got.ID)

	// the page below the line wins over the older page elsewhere
	_, cards, err := sv.Cards(ctx, blue.ID)
	require.NoError(t, err)
	var found bool
	for _, v := range cards {
		if v.Station.ID == tr.stations["siam"] {
			found = true
			require.NotNil(t, v.Page)
			assert.Equal(t, other.ID, v.Page.ID)
			assert.Equal(t, "/ขนส่ง/mrt/สายสีน้ำเงิน/siam/", *v.URL)
		}
	}
	assert.True(t, found)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	err := transit.Atomically(ctx, tr.store, false, func(s transit.Session) error {
		draft := transit.NewStationPage("Draft", "draft",
			transit.StationPageData{})
		return s.CreateChild(ctx, tr.line.ID, draft)
	})
	require.NoError(t, err)

	tests := []struct {
		msg  string
		path string
		id   int64
	}{
		{"home", "/", 0},
		{"system", "/public-transport/bts/", tr.system.ID},
		{"no slashes", "public-transport/bts/sukhumvit", tr.line.ID},
		{"station", "/public-transport/bts/sukhumvit/siam/", tr.siam.ID},
		{"station below system", "/public-transport/bts/siam/", tr.siam.ID},
	}
	for _, v := range tests {
		p, err := sv.Resolve(ctx, v.path)
		require.NoError(t, err, v.msg)
		if v.id == 0 {
			assert.Equal(t, transit.KindHome, p.Kind, v.msg)
			continue
		}
		assert.Equal(t, v.id, p.ID, v.msg)
	}

	missing := []string{
		"/public-transport/mrt/siam/",
		"/public-transport/bts/sukhumvit/draft/",
		"/public-transport/bts/draft/",
		"/public-transport/bts/unknown/",
		"/public-transport/bts/sukhumvit/siam/extra/",
	}
	for _, v := range missing {
		_, err := sv.Resolve(ctx, v)
		assert.Equal(t, errcode.RouteNotFoundError, errCode(t, err), v)
	}
}

func TestCards(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)
	sv := iopages.New(tr.store, tr.cfg)

	_, cards, err := sv.Cards(ctx, tr.system.ID)
	require.NoError(t, err)
	require.Len(t, cards, 4)

	var labels []string
	for _, v := range cards {
		labels = append(labels, v.Station.StationLabel+"/"+v.Station.LineLabel)
	}
	assert.Equal(t,
		[]string{"Asok/Sukhumvit", "Mo Chit/Sukhumvit", "Siam/Silom",
			"Siam/Sukhumvit"},
		labels,
	)
	assert.Nil(t, cards[0].URL)
	assert.Nil(t, cards[2].Page)
	require.NotNil(t, cards[3].URL)
	assert.Equal(t, "/public-transport/bts/siam/", *cards[3].URL)

	_, cards, err = sv.Cards(ctx, tr.line.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	require.NotNil(t, cards[2].URL)
	assert.Equal(t, "/public-transport/bts/sukhumvit/siam/", *cards[2].URL)

	err = transit.Atomically(ctx, tr.store, false, func(s transit.Session) error {
		tr.line.Line.StationSort = "-station_label"
		return s.Save(ctx, tr.line)
	})
	require.NoError(t, err)
	_, cards, err = sv.Cards(ctx, tr.line.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siam", cards[0].Station.StationLabel)

	_, _, err = sv.Cards(ctx, tr.index.ID)
	assert.Equal(t, errcode.PageKindError, errCode(t, err))
}

func TestBuildStationCardsScope(t *testing.T) {
	ctx := context.Background()
	tr := setup(t)

	err := transit.Atomically(ctx, tr.store, true, func(s transit.Session) error {
		// a second page bound to siam, outside of bts
		siamID := tr.stations["siam"]
		other := transit.NewStationPage("Siam (MRT)", "siam",
			transit.StationPageData{StationID: &siamID})
		require.NoError(t, s.CreateChild(ctx, tr.hidden.ID, other))

		rec, err := s.Station(ctx, siamID)
		require.NoError(t, err)
		recs := []*transit.StationRecord{rec}

		cards, err := iopages.BuildStationCards(ctx, s, recs, tr.hidden)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, other.ID, cards[0].Page.ID)
		assert.Equal(t, "/public-transport/mrt/siam/", *cards[0].URL)

		cards, err = iopages.BuildStationCards(ctx, s, recs, nil)
		require.NoError(t, err)
		assert.Equal(t, tr.siam.ID, cards[0].Page.ID)
		assert.Equal(t, "/public-transport/bts/sukhumvit/siam/", *cards[0].URL)
		return nil
	})
	require.NoError(t, err)
}
