package transit

import "strings"

// SplitLines splits a comma-joined line value into trimmed non-empty
// parts.
func SplitLines(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

// MergeLines adds the incoming line to a comma-joined list of lines
// unless it is already there. Order of the existing lines is kept.
func MergeLines(existing, incoming string) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return existing
	}
	if existing == "" {
		return incoming
	}

	parts := SplitLines(existing)
	for _, v := range parts {
		if v == incoming {
			return existing
		}
	}
	parts = append(parts, incoming)
	return strings.Join(parts, ", ")
}
