// Package geodata decodes transit station datasets. It understands two
// formats: a flat JSON array of station records and a GeoJSON
// FeatureCollection of Point features.
package geodata

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CoordinatePlaces is the number of fractional digits kept in coordinates.
const CoordinatePlaces = 6

var (
	// ErrNotArray means a flat dataset is not a JSON array of objects.
	ErrNotArray = errors.New("expected a list of station records")

	// ErrNotFeatureCollection means a GeoJSON document has a wrong type.
	ErrNotFeatureCollection = errors.New("expected a GeoJSON FeatureCollection")
)

func decode(data []byte) (any, error) {
	var res any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the top-level value")
	}
	return res, nil
}

// Text renders a decoded JSON scalar as a string. Nulls become an empty
// string, objects and arrays are rendered as JSON.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		res, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(res)
	}
}

// Quantize converts a decoded JSON value to a coordinate rounded to six
// fractional digits, half away from zero. Missing, empty and
// non-numeric values produce a null decimal.
func Quantize(v any) decimal.NullDecimal {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return decimal.NullDecimal{}
	}
	if s == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(CoordinatePlaces))
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
}

var shortOffset = regexp.MustCompile(`([+-])(\d{2})(\d{2})?$`)

// expandOffset rewrites "+07" and "+0700" offsets of a date-time as
// "+07:00". The date part is never touched, so "1999-12-05" stays.
func expandOffset(s string) string {
	if len(s) <= len(time.DateOnly) {
		return s
	}
	date, clock := s[:len(time.DateOnly)], s[len(time.DateOnly):]
	m := shortOffset.FindStringSubmatch(clock)
	if m == nil {
		return s
	}
	mm := m[3]
	if mm == "" {
		mm = "00"
	}
	clock = clock[:len(clock)-len(m[0])] + m[1] + m[2] + ":" + mm
	return date + clock
}

// ParseDate reads an ISO-8601 date or date-time and returns the calendar
// date at UTC midnight. The date is taken in the offset of the value,
// a trailing "Z" means UTC. Anything else gives nil.
func ParseDate(v any) *time.Time {
	s := strings.TrimSpace(Text(v))
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "+00:00"
	}
	s = expandOffset(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		res := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &res
	}
	return nil
}
