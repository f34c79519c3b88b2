package geodata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FlatRecord is one station of a flat JSON dataset. Missing fields are
// empty.
type FlatRecord struct {
	System      string
	Name        string
	StationCode string
	Line        string
	Latitude    decimal.NullDecimal
	Longitude   decimal.NullDecimal
	WikidataID  string
	WikidataURL string
}

// ParseFlat decodes a JSON array of station objects.
func ParseFlat(data []byte) ([]FlatRecord, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	res := make([]FlatRecord, 0, len(items))
	for i, v := range items {
		item, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: %w", i, ErrNotArray)
		}
		res = append(res, FlatRecord{
			System:      Text(item["system"]),
			Name:        Text(item["name"]),
			StationCode: Text(item["station_code"]),
			Line:        Text(item["line"]),
			Latitude:    Quantize(item["lat"]),
			Longitude:   Quantize(item["lon"]),
			WikidataID:  Text(item["wikidata_id"]),
			WikidataURL: Text(item["wikidata_url"]),
		})
	}
	return res, nil
}
