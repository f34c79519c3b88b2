package transit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// StationKey is the composite natural key of a station record: the
// external station id together with the external line id. The same
// physical station appears once per line that serves it.
type StationKey struct {
	StationQID string `validate:"max=40"`
	LineQID    string `validate:"max=40"`
}

// Valid reports whether both parts of the key are present.
func (k StationKey) Valid() bool {
	return k.StationQID != "" && k.LineQID != ""
}

func (k StationKey) String() string {
	return k.StationQID + "|" + k.LineQID
}

// StationFields are the mutable attributes of a station record.
type StationFields struct {
	StationLabel string `validate:"max=200"`
	SystemLabel  string `validate:"max=200"`
	SystemQID    string `validate:"max=40"`
	LineLabel    string `validate:"max=200"`
	// Opening is a calendar date at UTC midnight, nil when unknown.
	Opening      *time.Time
	StationCodes string `validate:"max=120"`
	Latitude     decimal.NullDecimal
	Longitude    decimal.NullDecimal
	// RawProperties keeps the source properties as they came.
	RawProperties map[string]any
}

// StationRecord is a canonical station entity.
type StationRecord struct {
	ID   int64
	UUID string
	StationKey
	StationFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Equal reports whether two sets of fields would be stored identically.
func (f StationFields) Equal(o StationFields) bool {
	if f.StationLabel != o.StationLabel ||
		f.SystemLabel != o.SystemLabel ||
		f.SystemQID != o.SystemQID ||
		f.LineLabel != o.LineLabel ||
		f.StationCodes != o.StationCodes {
		return false
	}
	if DateString(f.Opening) != DateString(o.Opening) {
		return false
	}
	if !equalNullDecimal(f.Latitude, o.Latitude) ||
		!equalNullDecimal(f.Longitude, o.Longitude) {
		return false
	}
	a, errA := MarshalProperties(f.RawProperties)
	b, errB := MarshalProperties(o.RawProperties)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

func equalNullDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// DateString formats an optional date as YYYY-MM-DD, or returns an
// empty string for nil.
func DateString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// MarshalProperties encodes raw properties as JSON with sorted keys.
// Nil properties are encoded as an empty object.
func MarshalProperties(props map[string]any) ([]byte, error) {
	if props == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(props)
}

// UnmarshalProperties decodes raw properties keeping numbers as
// json.Number, so they survive a round trip without losing precision.
func UnmarshalProperties(data []byte) (map[string]any, error) {
	res := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// ValidateStation checks field lengths and coordinate ranges.
func ValidateStation(key StationKey, f StationFields) error {
	var errs []error
	if err := validate.Struct(key); err != nil {
		errs = append(errs, err)
	}
	if err := validate.Struct(f); err != nil {
		errs = append(errs, err)
	}
	if f.Latitude.Valid && f.Latitude.Decimal.Abs().GreaterThan(maxLatitude) {
		errs = append(errs, fmt.Errorf("latitude %s is out of range",
			f.Latitude.Decimal.String()))
	}
	if f.Longitude.Valid && f.Longitude.Decimal.Abs().GreaterThan(maxLongitude) {
		errs = append(errs, fmt.Errorf("longitude %s is out of range",
			f.Longitude.Decimal.String()))
	}
	return errors.Join(errs...)
}

// StationFilter narrows down a station listing. Empty fields match
// everything.
type StationFilter struct {
	SystemLabel string
	LineLabel   string
	LineQID     string
	IDs         []int64
}

// LineRef is a distinct line of a transit system.
type LineRef struct {
	LineLabel string
	LineQID   string
}
