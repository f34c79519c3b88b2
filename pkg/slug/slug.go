// Package slug computes URL path segments for pages of the content tree.
// All functions are pure and deterministic.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var dashSpaceRe = regexp.MustCompile(`[-\s]+`)

// Slugify converts a title to a lowercase ASCII slug. It decomposes
// accented letters, drops everything that is not a letter, digit,
// underscore, hyphen or whitespace, collapses runs of hyphens and
// whitespace into one hyphen and trims hyphens and underscores from both
// ends. The result can be empty.
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case isWord(r), r == '-':
			b.WriteRune(r)
		case isSpace(r):
			b.WriteByte(' ')
		}
	}

	res := dashSpaceRe.ReplaceAllString(b.String(), "-")
	return strings.Trim(res, "-_")
}

func isWord(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// Set is a collection of slugs already used by siblings.
type Set map[string]struct{}

// NewSet creates a Set from existing slugs.
func NewSet(slugs ...string) Set {
	res := make(Set, len(slugs))
	for _, v := range slugs {
		res.Add(v)
	}
	return res
}

// Add marks a slug as taken.
func (s Set) Add(slug string) {
	s[slug] = struct{}{}
}

// Has reports whether a slug is taken.
func (s Set) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Request describes a page that needs a slug.
type Request struct {
	// Title is the main source of the slug.
	Title string
	// StationCode, when present, gives the second candidate.
	StationCode string
	// ExternalID, when present, gives the third candidate (lowercased).
	ExternalID string
	// Fallback is the base used when the title has no slug characters.
	Fallback string
}

// Allocate returns the first candidate slug that is not in taken.
// Candidates are the slugified title, the title with the slugified
// station code, the title with the lowercased external id, and finally
// the title with a numeric suffix starting from 2. Allocate does not
// modify taken, callers add the result themselves.
func Allocate(req Request, taken Set) string {
	base := Slugify(req.Title)
	if base == "" {
		base = req.Fallback
	}

	candidates := []string{base}
	if code := Slugify(req.StationCode); code != "" {
		candidates = append(candidates, base+"-"+code)
	}
	if id := strings.TrimSpace(req.ExternalID); id != "" {
		candidates = append(candidates, base+"-"+strings.ToLower(id))
	}

	for _, v := range candidates {
		if !taken.Has(v) {
			return v
		}
	}

	for i := 2; ; i++ {
		res := base + "-" + strconv.Itoa(i)
		if !taken.Has(res) {
			return res
		}
	}
}
