// Package ioout writes station records, pages and station cards as text,
// JSON or YAML.
package ioout

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gnames/gnfmt"
	"github.com/gnames/transitdb/internal/iopages"
	"github.com/gnames/transitdb/pkg/transit"
	"gopkg.in/yaml.v3"
)

// Format of the output.
type Format int

const (
	Text Format = iota
	JSON
	YAML
)

// NewFormat parses a format name.
func NewFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Text, FormatError(s)
	}
}

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "text"
	}
}

// Station is the exported view of a station record.
type Station struct {
	ID           int64  `json:"id" yaml:"id"`
	UUID         string `json:"uuid" yaml:"uuid"`
	StationQID   string `json:"station_qid" yaml:"station_qid"`
	LineQID      string `json:"line_qid" yaml:"line_qid"`
	StationLabel string `json:"station_label" yaml:"station_label"`
	SystemLabel  string `json:"system_label" yaml:"system_label"`
	SystemQID    string `json:"system_qid" yaml:"system_qid"`
	LineLabel    string `json:"line_label" yaml:"line_label"`
	Opening      string `json:"opening,omitempty" yaml:"opening,omitempty"`
	StationCodes string `json:"station_codes" yaml:"station_codes"`
	Latitude     string `json:"lat,omitempty" yaml:"lat,omitempty"`
	Longitude    string `json:"lon,omitempty" yaml:"lon,omitempty"`
}

// NewStation converts a record.
func NewStation(rec *transit.StationRecord) Station {
	res := Station{
		ID:           rec.ID,
		UUID:         rec.UUID,
		StationQID:   rec.StationQID,
		LineQID:      rec.LineQID,
		StationLabel: rec.StationLabel,
		SystemLabel:  rec.SystemLabel,
		SystemQID:    rec.SystemQID,
		LineLabel:    rec.LineLabel,
		Opening:      transit.DateString(rec.Opening),
		StationCodes: rec.StationCodes,
	}
	if rec.Latitude.Valid {
		res.Latitude = rec.Latitude.Decimal.StringFixed(6)
	}
	if rec.Longitude.Valid {
		res.Longitude = rec.Longitude.Decimal.StringFixed(6)
	}
	return res
}

// Page is the exported view of a page.
type Page struct {
	ID    int64  `json:"id" yaml:"id"`
	Kind  string `json:"kind" yaml:"kind"`
	Title string `json:"title" yaml:"title"`
	Slug  string `json:"slug" yaml:"slug"`
	URL   string `json:"url" yaml:"url"`
	Live  bool   `json:"live" yaml:"live"`
	Data  any    `json:"data" yaml:"data"`
}

// NewPage converts a page.
func NewPage(p *transit.Page) Page {
	return Page{
		ID:    p.ID,
		Kind:  p.Kind.String(),
		Title: p.Title,
		Slug:  p.Slug,
		URL:   p.URL(),
		Live:  p.Live,
		Data:  p.Payload(),
	}
}

// Card is the exported view of a station card.
type Card struct {
	StationID    int64   `json:"station_id" yaml:"station_id"`
	StationLabel string  `json:"station_label" yaml:"station_label"`
	LineLabel    string  `json:"line_label" yaml:"line_label"`
	StationCodes string  `json:"station_codes" yaml:"station_codes"`
	PageID       *int64  `json:"page_id" yaml:"page_id"`
	PageURL      *string `json:"page_url" yaml:"page_url"`
}

// NewCard converts a station card.
func NewCard(c iopages.Card) Card {
	res := Card{
		StationID:    c.Station.ID,
		StationLabel: c.Station.StationLabel,
		LineLabel:    c.Station.LineLabel,
		StationCodes: c.Station.StationCodes,
		PageURL:      c.URL,
	}
	if c.Page != nil {
		id := c.Page.ID
		res.PageID = &id
	}
	return res
}

// WriteStations writes station records.
func WriteStations(w io.Writer, recs []*transit.StationRecord, f Format) error {
	res := make([]Station, len(recs))
	for i, v := range recs {
		res[i] = NewStation(v)
	}
	if f != Text {
		return encode(w, res, f)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATION\tSYSTEM\tLINE\tCODES\tOPENING")
	for _, v := range res {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.StationLabel,
			v.SystemLabel, v.LineLabel, v.StationCodes, v.Opening)
	}
	return tw.Flush()
}

// WritePage writes one page.
func WritePage(w io.Writer, p *transit.Page, f Format) error {
	res := NewPage(p)
	if f != Text {
		return encode(w, res, f)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", res.ID)
	fmt.Fprintf(tw, "Kind:\t%s\n", res.Kind)
	fmt.Fprintf(tw, "Title:\t%s\n", res.Title)
	fmt.Fprintf(tw, "URL:\t%s\n", res.URL)
	fmt.Fprintf(tw, "Live:\t%t\n", res.Live)
	return tw.Flush()
}

// WriteCards writes station cards of a page.
func WriteCards(w io.Writer, cards []iopages.Card, f Format) error {
	res := make([]Card, len(cards))
	for i, v := range cards {
		res[i] = NewCard(v)
	}
	if f != Text {
		return encode(w, res, f)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATION ID\tSTATION\tLINE\tURL")
	for _, v := range res {
		url := "-"
		if v.PageURL != nil {
			url = *v.PageURL
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.StationID, v.StationLabel,
			v.LineLabel, url)
	}
	return tw.Flush()
}

func encode(w io.Writer, v any, f Format) error {
	var bs []byte
	var err error
	switch f {
	case JSON:
		enc := gnfmt.GNjson{Pretty: true}
		bs, err = enc.Encode(v)
	case YAML:
		bs, err = yaml.Marshal(v)
	default:
		return FormatError(f.String())
	}
	if err != nil {
		return EncodeError(f.String(), err)
	}

	if _, err = w.Write(bs); err != nil {
		return EncodeError(f.String(), err)
	}
	if f == JSON {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
