package geodata

import (
	"maps"
	"strings"

	"github.com/gnames/transitdb/pkg/transit"
	"github.com/shopspring/decimal"
)

// Feature is a Point feature converted to canonical station fields.
type Feature struct {
	Key    transit.StationKey
	Fields transit.StationFields
}

// FeatureCollection is the result of parsing a GeoJSON document.
type FeatureCollection struct {
	// Total is the number of features in the document.
	Total int
	// Points are features with Point geometry, in document order.
	Points []Feature
	// NonPoint counts features with any other geometry.
	NonPoint int
}

// ParseFeatureCollection decodes a GeoJSON FeatureCollection of transit
// stations. Only the top-level type is validated, individual features are
// read leniently.
func ParseFeatureCollection(data []byte) (*FeatureCollection, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	obj, ok := doc.(map[string]any)
	if !ok || Text(obj["type"]) != "FeatureCollection" {
		return nil, ErrNotFeatureCollection
	}

	features, _ := obj["features"].([]any)
	res := &FeatureCollection{Total: len(features)}
	for _, v := range features {
		f, _ := v.(map[string]any)
		geom, _ := f["geometry"].(map[string]any)
		if Text(geom["type"]) != "Point" {
			res.NonPoint++
			continue
		}
		props, _ := f["properties"].(map[string]any)
		coords, _ := geom["coordinates"].([]any)
		res.Points = append(res.Points, newFeature(props, coords))
	}
	return res, nil
}

func newFeature(props map[string]any, coords []any) Feature {
	var lat, lon decimal.NullDecimal
	if len(coords) >= 2 {
		lon = Quantize(coords[0])
		lat = Quantize(coords[1])
	}

	raw := make(map[string]any, len(props)+1)
	maps.Copy(raw, props)
	if len(coords) > 0 {
		raw["coordinates"] = coords
	}

	return Feature{
		Key: transit.StationKey{
			StationQID: strings.TrimSpace(Text(props["stationQid"])),
			LineQID:    strings.TrimSpace(Text(props["lineQid"])),
		},
		Fields: transit.StationFields{
			StationLabel:  Text(props["stationLabel"]),
			SystemLabel:   Text(props["systemLabel"]),
			SystemQID:     Text(props["systemQid"]),
			LineLabel:     Text(props["lineLabel"]),
			Opening:       ParseDate(props["opening"]),
			StationCodes:  Text(props["stationCodes"]),
			Latitude:      lat,
			Longitude:     lon,
			RawProperties: raw,
		},
	}
}
