package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/ioout"
	"github.com/gnames/transitdb/internal/iotesting"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unified = `{"type": "FeatureCollection", "features": [
  {"type": "Feature",
   "geometry": {"type": "Point", "coordinates": [100.5341, 13.7456]},
   "properties": {"stationLabel": "Siam", "stationQid": "Q100",
     "systemLabel": "BTS", "systemQid": "Q1", "lineLabel": "Sukhumvit",
     "lineQid": "L1", "stationCodes": "CEN", "opening": "1999-12-05"}},
  {"type": "Feature",
   "geometry": {"type": "Point", "coordinates": [100.5604, 13.7370]},
   "properties": {"stationLabel": "Asok", "stationQid": "Q101",
     "systemLabel": "BTS", "systemQid": "Q1", "lineLabel": "Sukhumvit",
     "lineQid": "L1", "stationCodes": "E4"}},
  {"type": "Feature",
   "geometry": {"type": "Point", "coordinates": [100.5341, 13.7456]},
   "properties": {"stationLabel": "Siam", "stationQid": "Q100",
     "systemLabel": "BTS", "systemQid": "Q1", "lineLabel": "Silom",
     "lineQid": "L2", "stationCodes": "CEN"}}
]}`

const flat = `[
  {"system": "BTS", "name": "Siam", "line": "Sukhumvit", "wikidata_id": "Q100"},
  {"system": "BTS", "name": "Siam", "line": "Silom", "wikidata_id": "Q100"}
]`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func resolveID(t *testing.T, path string) int64 {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, runResolve(&buf, path, "json"), path)
	var res ioout.Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	return res.ID
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, err.Error())
	return gnErr.Code
}

// TestWorkflow runs the commands in the order of a real deployment.
func TestWorkflow(t *testing.T) {
	cfg = iotesting.Config(t)
	require.NoError(t, runCreate(nil, strings.NewReader(""), false))

	path := writeInput(t, "unified.geojson", unified)
	dry := getImportUnifiedCmd()
	require.NoError(t, dry.Flags().Set("dry-run", "true"))
	require.NoError(t, runImportUnified(dry, path))
	assert.True(t, cfg.Import.DryRun)

	var buf bytes.Buffer
	require.NoError(t, runStations(&buf, stationsParams{format: "json"}))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	wet := getImportUnifiedCmd()
	require.NoError(t, wet.Flags().Set("dry-run", "false"))
	require.NoError(t, runImportUnified(wet, path))

	buf.Reset()
	require.NoError(t, runStations(&buf,
		stationsParams{system: "BTS", line: "Sukhumvit", format: "json"}))
	var stations []ioout.Station
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stations))
	require.Len(t, stations, 2)
	assert.Equal(t, "Asok", stations[0].StationLabel)
	siamID := stations[1].ID

	buf.Reset()
	require.NoError(t, runStations(&buf,
		stationsParams{search: "cen", format: "yaml"}))
	assert.Contains(t, buf.String(), "Silom")
	assert.NotContains(t, buf.String(), "Asok")

	params := lifecycle.PageImportParams{
		Path:         writeInput(t, "flat.json", flat),
		IndexSlug:    "public-transport",
		IndexTitle:   "Public Transport",
		Category:     "BTS",
		CategorySlug: "bts-stations",
		System:       "BTS",
	}
	require.NoError(t, runImportBTS(getImportBTSCmd(), params))

	sync := lifecycle.SyncParams{IndexSlug: "public-transport"}
	// the new index page has no system filters
	require.NoError(t, runSync(getSyncCmd(), sync))
	err := runResolve(&buf, "/public-transport/bts/", "json")
	assert.Equal(t, errcode.RouteNotFoundError, errCode(t, err))

	indexID := resolveID(t, "/public-transport/")
	buf.Reset()
	require.NoError(t, runSetFilters(&buf, indexID,
		[]string{" BTS ", "", "BTS"}, "json"))
	var index ioout.Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &index))
	data, ok := index.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"BTS"}, data["system_filters"])

	require.NoError(t, runSync(getSyncCmd(), sync))
	lineID := resolveID(t, "/public-transport/bts/sukhumvit/")
	systemID := resolveID(t, "/public-transport/bts/")

	// all systems over the same data changes nothing
	sync.AllSystems = true
	require.NoError(t, runSync(getSyncCmd(), sync))
	assert.Equal(t, lineID, resolveID(t, "/public-transport/bts/sukhumvit/"))
	assert.NotZero(t, resolveID(t, "/public-transport/bts-stations/siam/"))

	buf.Reset()
	require.NoError(t, runAddStation(&buf,
		addStationParams{parentID: lineID, stationID: siamID}, "json"))
	var page ioout.Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, "Siam", page.Title)
	assert.Equal(t, "/public-transport/bts/sukhumvit/siam/", page.URL)

	buf.Reset()
	require.NoError(t, runCards(&buf, systemID, "json"))
	var cards []ioout.Card
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cards))
	require.Len(t, cards, 3)
	require.NotNil(t, cards[2].PageURL)
	assert.Equal(t, "/public-transport/bts/sukhumvit/siam/", *cards[2].PageURL)
	assert.Nil(t, cards[0].PageURL)

	// the system page does not show stations
	err = runAddStation(&buf,
		addStationParams{parentID: systemID, stationID: siamID}, "json")
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StationPageValidationError, gnErr.Code)

	asokID := stations[0].ID
	buf.Reset()
	require.NoError(t, runBindStation(&buf, page.ID, asokID, "text"))
	assert.Contains(t, buf.String(), "Asok")
}

// TestCommandErrors verifies errors that stop commands early.
func TestCommandErrors(t *testing.T) {
	cfg = iotesting.Config(t)

	var buf bytes.Buffer
	err := runStations(&buf, stationsParams{format: "json"})
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBEmptyDatabaseError, gnErr.Code)

	require.NoError(t, runCreate(nil, strings.NewReader(""), false))

	tests := []struct {
		msg  string
		fn   func() error
		code gn.ErrorCode
	}{
		{"format", func() error {
			return runStations(&buf, stationsParams{format: "xml"})
		}, errcode.OutputFormatError},
		{"input", func() error {
			return runImportUnified(getImportUnifiedCmd(),
				filepath.Join(t.TempDir(), "none.geojson"))
		}, errcode.InputNotFoundError},
		{"index selector", func() error {
			return runSync(getSyncCmd(), lifecycle.SyncParams{})
		}, errcode.IndexPageSelectorError},
		{"route", func() error {
			return runResolve(&buf, "/nowhere/", "text")
		}, errcode.RouteNotFoundError},
		{"cards", func() error {
			return runCards(&buf, 9999, "text")
		}, errcode.PageNotFoundError},
	}
	for _, v := range tests {
		err := v.fn()
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}
