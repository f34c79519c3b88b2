package ioimport_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/ioimport"
	"github.com/gnames/transitdb/internal/iotesting"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func params(path string) lifecycle.PageImportParams {
	return lifecycle.PageImportParams{
		Path:         path,
		IndexSlug:    "public-transport",
		IndexTitle:   "Public Transport",
		CategorySlug: "bts",
		Category:     "BTS",
		System:       "BTS",
	}
}

func legacyPages(t *testing.T, store transit.Store) []*transit.Page {
	t.Helper()
	var res []*transit.Page
	err := transit.Atomically(context.Background(), store, true,
		func(s transit.Session) error {
			var err error
			res, err = s.Pages(context.Background(),
				transit.OfKind(transit.KindLegacyStation))
			return err
		})
	require.NoError(t, err)
	return res
}

const flatData = `[
  {"system": "BTS", "name": "Siam", "station_code": "CEN", "line": "Sukhumvit",
   "lat": 13.74561234, "lon": "100.5341", "wikidata_id": "Q1",
   "wikidata_url": "https://www.wikidata.org/wiki/Q1"},
  {"system": "BTS", "name": "Siam", "line": "Silom", "wikidata_id": "Q1"},
  {"system": "BTS", "name": "Siam", "station_code": "CEN", "wikidata_id": "Q2"},
  {"system": "MRT", "name": "Sukhumvit", "line": "Blue"},
  {"name": "", "line": "Gold"},
  {"system": "BTS", "name": "Siam", "line": "Sukhumvit", "wikidata_id": "Q1"}
]`

func TestPageImport(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	path := writeFile(t, "stations.json", flatData)

	imp := ioimport.NewPageImporter(store, cfg)
	stats, err := imp.Import(ctx, params(path))
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PageImportStats{
		Candidates: 5, Created: 3, Updated: 1, Skipped: 1}, stats)

	pages := legacyPages(t, store)
	require.Len(t, pages, 3)

	siam := pages[0]
	assert.Equal(t, "siam", siam.Slug)
	assert.Equal(t, "Sukhumvit, Silom", siam.Legacy.Line)
	assert.Equal(t, "BTS", siam.Legacy.Category)
	assert.Equal(t, "13.745612", siam.Legacy.Latitude.Decimal.StringFixed(6))
	assert.True(t, siam.Live)
	assert.Equal(t, "/home/public-transport/bts/siam/", siam.URLPath)

	assert.Equal(t, "siam-cen", pages[1].Slug)
	assert.Equal(t, ioimport.UnnamedStation, pages[2].Title)
	assert.Equal(t, "unnamed-station", pages[2].Slug)

	// second run only finds duplicates
	stats, err = imp.Import(ctx, params(path))
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PageImportStats{
		Candidates: 5, Created: 1, Updated: 0, Skipped: 4}, stats)
	pages = legacyPages(t, store)
	assert.Len(t, pages, 4)
	assert.Equal(t, "unnamed-station-2", pages[3].Slug)
}

func TestPageImportDryRun(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	cfg.Update([]config.Option{config.OptImportDryRun(true)})
	path := writeFile(t, "stations.json", flatData)

	stats, err := ioimport.NewPageImporter(store, cfg).Import(ctx, params(path))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Created)
	assert.Empty(t, legacyPages(t, store))
}

func TestPageImportErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	imp := ioimport.NewPageImporter(store, cfg)
	home := iotesting.Home(t, store)

	err := transit.Atomically(ctx, store, false, func(s transit.Session) error {
		p := transit.NewCategoryPage("Taken", "public-transport",
			transit.CategoryData{})
		return s.CreateChild(ctx, home.ID, p)
	})
	require.NoError(t, err)

	good := writeFile(t, "good.json", `[]`)
	tests := []struct {
		msg    string
		params lifecycle.PageImportParams
		code   gn.ErrorCode
	}{
		{"missing file", params(filepath.Join(t.TempDir(), "none.json")),
			errcode.InputNotFoundError},
		{"bad json", params(writeFile(t, "bad.json", `[{"name": }`)),
			errcode.InputDecodeError},
		{"not an array", params(writeFile(t, "obj.json", `{"name": "Siam"}`)),
			errcode.InputNotArrayError},
		{"index slug collision", params(good), errcode.IndexSlugTakenError},
		{"missing index id", func() lifecycle.PageImportParams {
			p := params(good)
			p.IndexID = 9999
			return p
		}(), errcode.IndexPageNotFoundError},
		{"index id of another kind", func() lifecycle.PageImportParams {
			p := params(good)
			p.IndexID = home.ID
			return p
		}(), errcode.IndexPageNotFoundError},
	}

	for _, v := range tests {
		_, err := imp.Import(ctx, v.params)
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}

func TestPageImportCategoryID(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	path := writeFile(t, "stations.json", `[{"name": "Siam", "system": "BTS"}]`)

	p := params(path)
	p.CategoryID = 9999
	_, err := ioimport.NewPageImporter(store, cfg).Import(ctx, p)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CategoryPageNotFoundError, gnErr.Code)
}

const geoData = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [100.50176234, 13.7456]},
     "properties": {"stationLabel": "Siam", "stationQid": " Q100 ",
       "systemLabel": "BTS", "systemQid": "Q1", "lineLabel": "Sukhumvit",
       "lineQid": "Q10", "opening": "1999-12-05T00:00:00Z",
       "stationCodes": "CEN"}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [100.5, 13.7]},
     "properties": {"stationLabel": "Siam", "stationQid": "Q100",
       "systemLabel": "BTS", "lineLabel": "Silom", "lineQid": "Q11"}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [100.5, 13.7]},
     "properties": {"stationLabel": "No line", "stationQid": "Q101"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]},
     "properties": {"lineLabel": "Sukhumvit"}}
  ]
}`

func countStations(t *testing.T, store transit.Store) int {
	t.Helper()
	var res int
	err := transit.Atomically(context.Background(), store, true,
		func(s transit.Session) error {
			var err error
			res, err = s.CountStations(context.Background())
			return err
		})
	require.NoError(t, err)
	return res
}

func TestStationImport(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	path := writeFile(t, "unified.geojson", geoData)

	imp := ioimport.NewStationImporter(store, cfg)
	stats, err := imp.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Processed: 4, created: 2, updated: 0, skipped: 2",
		stats.String())
	assert.Equal(t, 2, countStations(t, store))

	stats, err = imp.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Processed: 4, created: 0, updated: 2, skipped: 2",
		stats.String())
	assert.Equal(t, 2, countStations(t, store))

	err = transit.Atomically(ctx, store, true, func(s transit.Session) error {
		recs, err := s.Stations(ctx, transit.StationFilter{LineQID: "Q10"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		rec := recs[0]
		assert.Equal(t, "Q100", rec.StationQID)
		assert.Equal(t, "100.501762", rec.Longitude.Decimal.StringFixed(6))
		assert.Equal(t, "1999-12-05", transit.DateString(rec.Opening))
		assert.Contains(t, rec.RawProperties, "coordinates")
		return nil
	})
	require.NoError(t, err)
}

func TestStationImportDryRun(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	cfg := iotesting.Config(t)
	cfg.Update([]config.Option{config.OptImportDryRun(true)})
	path := writeFile(t, "unified.geojson", geoData)

	stats, err := ioimport.NewStationImporter(store, cfg).Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 0, countStations(t, store))
}

func TestStationImportErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := iotesting.NewStore(t)
	imp := ioimport.NewStationImporter(store, iotesting.Config(t))

	tests := []struct {
		msg  string
		data string
		code gn.ErrorCode
	}{
		{"wrong type", `{"type": "Feature"}`,
			errcode.InputNotFeatureCollectionError},
		{"array", `[]`, errcode.InputNotFeatureCollectionError},
		{"malformed", `{"type": `, errcode.InputDecodeError},
		{"invalid record", `{"type": "FeatureCollection", "features": [
			{"geometry": {"type": "Point", "coordinates": [200, 10]},
			 "properties": {"stationQid": "Q1", "lineQid": "Q2"}}]}`,
			errcode.StoreValidationError},
	}

	for _, v := range tests {
		_, err := imp.Import(ctx, writeFile(t, "in.geojson", v.data))
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
	assert.Equal(t, 0, countStations(t, store))
}
