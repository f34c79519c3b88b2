package transit

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags a page of the content tree. Each kind carries its own payload
// in the matching field of Page.
type Kind int

const (
	KindUnknown Kind = iota
	KindRoot
	KindHome
	KindIndex
	KindSystem
	KindLine
	KindStation
	KindCategory
	KindLegacyStation
)

var kindNames = map[Kind]string{
	KindRoot:          "root",
	KindHome:          "home",
	KindIndex:         "index",
	KindSystem:        "system",
	KindLine:          "line",
	KindStation:       "station",
	KindCategory:      "category",
	KindLegacyStation: "legacy_station",
}

func (k Kind) String() string {
	if res, ok := kindNames[k]; ok {
		return res
	}
	return "unknown"
}

// NewKind converts a stored name back to a Kind.
func NewKind(s string) Kind {
	for k, v := range kindNames {
		if v == s {
			return k
		}
	}
	return KindUnknown
}

// Page is a node of the content tree.
type Page struct {
	ID       int64
	ParentID int64
	Kind     Kind
	Title    string
	Slug     string
	Live     bool
	// URLPath is the full path from the tree root, for example
	// "/home/public-transport/bts/".
	URLPath   string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time

	Index    *IndexData
	System   *SystemData
	Line     *LineData
	Station  *StationPageData
	Category *CategoryData
	Legacy   *LegacyData
}

// IndexData is the payload of the top page of the transport hierarchy.
type IndexData struct {
	Intro string `json:"intro,omitempty" yaml:"intro,omitempty"`
	// SystemFilters limits the systems mirrored under the index page.
	SystemFilters []string `json:"system_filters" yaml:"system_filters"`
}

// SystemData is the payload of a transit system page.
type SystemData struct {
	Intro        string `json:"intro,omitempty" yaml:"intro,omitempty"`
	SystemLabel  string `json:"system_label" yaml:"system_label"`
	SystemQID    string `json:"system_qid" yaml:"system_qid"`
	ShowStations bool   `json:"show_stations" yaml:"show_stations"`
	StationSort  string `json:"station_sort" yaml:"station_sort"`
}

// LineData is the payload of a transit line page.
type LineData struct {
	Intro       string `json:"intro,omitempty" yaml:"intro,omitempty"`
	LineLabel   string `json:"line_label" yaml:"line_label"`
	LineQID     string `json:"line_qid" yaml:"line_qid"`
	SystemLabel string `json:"system_label" yaml:"system_label"`
	StationSort string `json:"station_sort" yaml:"station_sort"`
}

// StationPageData is the payload of an editorial station page.
type StationPageData struct {
	// StationID binds the page to a canonical station record.
	StationID         *int64 `json:"station_id,omitempty" yaml:"station_id,omitempty"`
	Intro             string `json:"intro,omitempty" yaml:"intro,omitempty"`
	Body              string `json:"body,omitempty" yaml:"body,omitempty"`
	ParentLineDisplay string `json:"parent_line_display" yaml:"parent_line_display"`
}

// CategoryData is the payload of a container of legacy station pages.
type CategoryData struct {
	Intro    string `json:"intro,omitempty" yaml:"intro,omitempty"`
	Category string `json:"category" yaml:"category"`
	System   string `json:"system" yaml:"system"`
}

// LegacyData is the payload of a page created by the flat station import.
type LegacyData struct {
	Category    string              `json:"category" yaml:"category"`
	System      string              `json:"system" yaml:"system"`
	Line        string              `json:"line" yaml:"line"`
	StationCode string              `json:"station_code" yaml:"station_code"`
	Latitude    decimal.NullDecimal `json:"lat" yaml:"-"`
	Longitude   decimal.NullDecimal `json:"lon" yaml:"-"`
	WikidataID  string              `json:"wikidata_id" yaml:"wikidata_id"`
	WikidataURL string              `json:"wikidata_url" yaml:"wikidata_url"`
}

// NormalizeFilters trims system labels, drops empty ones and returns
// the rest sorted without duplicates.
func NormalizeFilters(labels []string) []string {
	res := make([]string, 0, len(labels))
	for _, v := range labels {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// NewIndexPage creates an unsaved index page.
func NewIndexPage(title, slug string, data IndexData) *Page {
	return &Page{Kind: KindIndex, Title: title, Slug: slug, Index: &data}
}

// NewSystemPage creates an unsaved system page.
func NewSystemPage(title, slug string, data SystemData) *Page {
	if data.StationSort == "" {
		data.StationSort = DefaultStationSort
	}
	return &Page{Kind: KindSystem, Title: title, Slug: slug, System: &data}
}

// NewLinePage creates an unsaved line page.
func NewLinePage(title, slug string, data LineData) *Page {
	if data.StationSort == "" {
		data.StationSort = DefaultStationSort
	}
	return &Page{Kind: KindLine, Title: title, Slug: slug, Line: &data}
}

// NewStationPage creates an unsaved station page.
func NewStationPage(title, slug string, data StationPageData) *Page {
	return &Page{Kind: KindStation, Title: title, Slug: slug, Station: &data}
}

// NewCategoryPage creates an unsaved category page.
func NewCategoryPage(title, slug string, data CategoryData) *Page {
	return &Page{Kind: KindCategory, Title: title, Slug: slug, Category: &data}
}

// NewLegacyPage creates an unsaved legacy station page.
func NewLegacyPage(title, slug string, data LegacyData) *Page {
	return &Page{Kind: KindLegacyStation, Title: title, Slug: slug,
		Legacy: &data}
}

// URL returns the path of the page relative to the site home page, which
// is the only child of the tree root. The home page and the root both
// map to "/".
func (p *Page) URL() string {
	parts := strings.Split(strings.Trim(p.URLPath, "/"), "/")
	if len(parts) <= 1 {
		return "/"
	}
	return "/" + strings.Join(parts[1:], "/") + "/"
}

// Payload returns the kind-specific data of the page.
func (p *Page) Payload() any {
	switch p.Kind {
	case KindIndex:
		return p.Index
	case KindSystem:
		return p.System
	case KindLine:
		return p.Line
	case KindStation:
		return p.Station
	case KindCategory:
		return p.Category
	case KindLegacyStation:
		return p.Legacy
	default:
		return nil
	}
}

// MarshalPayload encodes the kind-specific data of the page.
func (p *Page) MarshalPayload() ([]byte, error) {
	res, err := json.Marshal(p.Payload())
	if err != nil {
		return nil, err
	}
	if string(res) == "null" {
		return []byte("{}"), nil
	}
	return res, nil
}

// UnmarshalPayload decodes kind-specific data into the matching field.
// It fails when the page has a kind without a payload definition, or
// when data is not valid for the kind.
func (p *Page) UnmarshalPayload(data []byte) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	var target any
	switch p.Kind {
	case KindRoot, KindHome:
		return nil
	case KindIndex:
		p.Index = &IndexData{}
		target = p.Index
	case KindSystem:
		p.System = &SystemData{}
		target = p.System
	case KindLine:
		p.Line = &LineData{}
		target = p.Line
	case KindStation:
		p.Station = &StationPageData{}
		target = p.Station
	case KindCategory:
		p.Category = &CategoryData{}
		target = p.Category
	case KindLegacyStation:
		p.Legacy = &LegacyData{}
		target = p.Legacy
	default:
		return fmt.Errorf("page %d has unknown kind %q", p.ID, p.Kind)
	}
	return json.Unmarshal(data, target)
}

// Match is a predicate over pages used to filter tree queries.
// A nil Match accepts every page.
type Match func(*Page) bool

// OfKind matches pages of the given kind.
func OfKind(k Kind) Match {
	return func(p *Page) bool { return p.Kind == k }
}

// WithSlug matches pages with the given slug.
func WithSlug(s string) Match {
	return func(p *Page) bool { return p.Slug == s }
}

// All combines matches, a page has to satisfy each of them.
func All(ms ...Match) Match {
	return func(p *Page) bool {
		for _, m := range ms {
			if m != nil && !m(p) {
				return false
			}
		}
		return true
	}
}

// Accepts applies a possibly nil Match.
func (m Match) Accepts(p *Page) bool {
	return m == nil || m(p)
}
