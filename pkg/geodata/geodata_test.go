package geodata_test

import (
	"encoding/json"
	"testing"

	"github.com/gnames/transitdb/pkg/geodata"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		msg   string
		inp   any
		valid bool
		out   string
	}{
		{"number", json.Number("100.50176234"), true, "100.501762"},
		{"half up", json.Number("13.7456785"), true, "13.745679"},
		{"half away from zero", json.Number("-13.7456785"), true, "-13.745679"},
		{"short", json.Number("13.7"), true, "13.700000"},
		{"exponent", json.Number("1e-7"), true, "0.000000"},
		{"string", " 100.5 ", true, "100.500000"},
		{"float", 100.25, true, "100.250000"},
		{"nil", nil, false, ""},
		{"empty string", "", false, ""},
		{"garbage", "north", false, ""},
		{"bool", true, false, ""},
	}

	for _, v := range tests {
		res := geodata.Quantize(v.inp)
		assert.Equal(t, v.valid, res.Valid, v.msg)
		if v.valid {
			assert.Equal(t, v.out, res.Decimal.StringFixed(6), v.msg)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		msg string
		inp any
		out string
	}{
		{"date", "1999-12-05", "1999-12-05"},
		{"date-time utc", "1999-12-05T00:00:00Z", "1999-12-05"},
		{"date-time offset", "1999-12-05T23:30:00-05:00", "1999-12-05"},
		{"fraction", "2004-07-03T10:00:00.123Z", "2004-07-03"},
		{"no zone", "2013-12-05T08:00:00", "2013-12-05"},
		{"space separator", "2013-12-05 08:00:00", "2013-12-05"},
		{"padded", "  2013-12-05 ", "2013-12-05"},
		{"compact offset", "2020-01-01T10:00:00+0700", "2020-01-01"},
		{"hour offset", "2020-01-01T01:00:00+07", "2020-01-01"},
		{"minutes compact offset", "2020-01-01T23:00-0530", "2020-01-01"},
		{"hour only with offset", "2020-01-01T10+07", "2020-01-01"},
		{"fraction compact offset", "2020-01-01T10:00:00.5-0300", "2020-01-01"},
		{"garbage", "soon", ""},
		{"empty", "", ""},
		{"nil", nil, ""},
		{"year only", "1999", ""},
	}

	for _, v := range tests {
		res := geodata.ParseDate(v.inp)
		assert.Equal(t, v.out, transit.DateString(res), v.msg)
		if res != nil {
			assert.Equal(t, 0, res.Hour(), v.msg)
		}
	}
}

func TestText(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", geodata.Text(nil))
	assert.Equal("E4", geodata.Text("E4"))
	assert.Equal("12", geodata.Text(json.Number("12")))
	assert.Equal("true", geodata.Text(true))
	assert.Equal(`["a"]`, geodata.Text([]any{"a"}))
}

func TestParseFlat(t *testing.T) {
	data := []byte(`[
		{"system": "BTS", "name": "Siam", "station_code": "CEN",
		 "line": "Sukhumvit", "lat": 13.74561234, "lon": "100.534099",
		 "wikidata_id": "Q123", "wikidata_url": "https://www.wikidata.org/wiki/Q123"},
		{"name": "Asok", "station_code": 4},
		{}
	]`)

	recs, err := geodata.ParseFlat(data)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	siam := recs[0]
	assert.Equal(t, "BTS", siam.System)
	assert.Equal(t, "Siam", siam.Name)
	assert.Equal(t, "CEN", siam.StationCode)
	assert.Equal(t, "Sukhumvit", siam.Line)
	assert.Equal(t, "13.745612", siam.Latitude.Decimal.StringFixed(6))
	assert.Equal(t, "100.534099", siam.Longitude.Decimal.StringFixed(6))
	assert.Equal(t, "Q123", siam.WikidataID)

	assert.Equal(t, "4", recs[1].StationCode)
	assert.Empty(t, recs[1].System)
	assert.False(t, recs[2].Latitude.Valid)
	assert.Empty(t, recs[2].Name)
}

func TestParseFlatErrors(t *testing.T) {
	tests := []struct {
		msg     string
		inp     string
		notList bool
	}{
		{"malformed", `[{"name": "Siam"`, false},
		{"object", `{"name": "Siam"}`, true},
		{"scalar elements", `["Siam"]`, true},
		{"trailing data", `[] []`, false},
		{"empty", ``, false},
	}

	for _, v := range tests {
		_, err := geodata.ParseFlat([]byte(v.inp))
		require.Error(t, err, v.msg)
		if v.notList {
			assert.ErrorIs(t, err, geodata.ErrNotArray, v.msg)
		} else {
			assert.NotErrorIs(t, err, geodata.ErrNotArray, v.msg)
		}
	}
}

func TestParseFeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature",
			 "geometry": {"type": "Point", "coordinates": [100.50176234, 13.74561234]},
			 "properties": {"stationLabel": "Siam", "stationQid": " Q123 ",
			   "systemLabel": "BTS", "systemQid": "Q1", "lineLabel": "Silom",
			   "lineQid": "Q2", "opening": "1999-12-05T00:00:00Z",
			   "stationCodes": "CEN", "extra": 1.50}},
			{"type": "Feature",
			 "geometry": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]},
			 "properties": {"stationQid": "Q9", "lineQid": "Q2"}},
			{"type": "Feature",
			 "geometry": {"type": "Point", "coordinates": [100.5]},
			 "properties": {"stationQid": "Q5", "lineQid": ""}},
			{"type": "Feature", "geometry": null, "properties": null}
		]
	}`)

	fc, err := geodata.ParseFeatureCollection(data)
	require.NoError(t, err)
	assert.Equal(t, 4, fc.Total)
	assert.Equal(t, 2, fc.NonPoint)
	require.Len(t, fc.Points, 2)

	siam := fc.Points[0]
	assert.Equal(t, transit.StationKey{StationQID: "Q123", LineQID: "Q2"}, siam.Key)
	assert.True(t, siam.Key.Valid())
	assert.Equal(t, "Siam", siam.Fields.StationLabel)
	assert.Equal(t, "BTS", siam.Fields.SystemLabel)
	assert.Equal(t, "Q1", siam.Fields.SystemQID)
	assert.Equal(t, "Silom", siam.Fields.LineLabel)
	assert.Equal(t, "CEN", siam.Fields.StationCodes)
	assert.Equal(t, "1999-12-05", transit.DateString(siam.Fields.Opening))
	assert.Equal(t, "100.501762", siam.Fields.Longitude.Decimal.StringFixed(6))
	assert.Equal(t, "13.745612", siam.Fields.Latitude.Decimal.StringFixed(6))
	assert.Equal(t, json.Number("1.50"), siam.Fields.RawProperties["extra"])
	assert.Equal(t, " Q123 ", siam.Fields.RawProperties["stationQid"])
	assert.Len(t, siam.Fields.RawProperties["coordinates"], 2)

	short := fc.Points[1]
	assert.False(t, short.Key.Valid())
	assert.False(t, short.Fields.Latitude.Valid)
	assert.False(t, short.Fields.Longitude.Valid)
	assert.Len(t, short.Fields.RawProperties["coordinates"], 1)
}

func TestParseFeatureCollectionErrors(t *testing.T) {
	tests := []struct {
		msg     string
		inp     string
		badType bool
	}{
		{"malformed", `{"type": "FeatureCollection"`, false},
		{"wrong type", `{"type": "Feature"}`, true},
		{"no type", `{"features": []}`, true},
		{"array", `[]`, true},
	}

	for _, v := range tests {
		_, err := geodata.ParseFeatureCollection([]byte(v.inp))
		require.Error(t, err, v.msg)
		assert.Equal(t, v.badType, err == geodata.ErrNotFeatureCollection, v.msg)
	}

	fc, err := geodata.ParseFeatureCollection([]byte(`{"type": "FeatureCollection"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, fc.Total)
}
