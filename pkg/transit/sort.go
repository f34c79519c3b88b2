package transit

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultStationSort is the station order of new system and line pages.
const DefaultStationSort = "station_label"

var (
	systemSorts = []string{"station_label", "-station_label", "opening",
		"-opening", "line_label", "station_codes"}
	lineSorts = []string{"station_label", "-station_label", "opening",
		"-opening", "station_codes"}
)

// StationSorts returns sort keys accepted by pages of a kind.
func StationSorts(k Kind) []string {
	switch k {
	case KindSystem:
		return slices.Clone(systemSorts)
	case KindLine:
		return slices.Clone(lineSorts)
	default:
		return nil
	}
}

// ValidStationSort reports whether a page kind accepts a sort key.
func ValidStationSort(k Kind, key string) bool {
	return slices.Contains(StationSorts(k), key)
}

// SortStations orders records by a sort key. A leading "-" reverses the
// order of the key. Unknown dates go last in ascending order. Ties and
// unknown keys fall back to station label, line label and ID.
func SortStations(recs []*StationRecord, key string) {
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")

	byField := func(a, b *StationRecord) int {
		switch field {
		case "station_label":
			return cmp.Compare(a.StationLabel, b.StationLabel)
		case "line_label":
			return cmp.Compare(a.LineLabel, b.LineLabel)
		case "station_codes":
			return cmp.Compare(a.StationCodes, b.StationCodes)
		case "opening":
			return compareDates(a, b)
		default:
			return 0
		}
	}

	slices.SortStableFunc(recs, func(a, b *StationRecord) int {
		res := byField(a, b)
		if desc {
			res = -res
		}
		if res != 0 {
			return res
		}
		return compareCanonical(a, b)
	})
}

func compareDates(a, b *StationRecord) int {
	switch {
	case a.Opening == nil && b.Opening == nil:
		return 0
	case a.Opening == nil:
		return 1
	case b.Opening == nil:
		return -1
	default:
		return a.Opening.Compare(*b.Opening)
	}
}

func compareCanonical(a, b *StationRecord) int {
	return cmp.Or(
		cmp.Compare(a.StationLabel, b.StationLabel),
		cmp.Compare(a.LineLabel, b.LineLabel),
		cmp.Compare(a.ID, b.ID),
	)
}
