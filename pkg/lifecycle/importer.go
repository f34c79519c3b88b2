package lifecycle

import (
	"context"
	"fmt"
)

// StationImportStats summarizes an import of canonical station records.
type StationImportStats struct {
	// Processed is the number of features in the input.
	Processed int
	Created   int
	Updated   int
	// Skipped counts non-Point features and records without a composite
	// key.
	Skipped int
}

func (s StationImportStats) String() string {
	return fmt.Sprintf("Processed: %d, created: %d, updated: %d, skipped: %d",
		s.Processed, s.Created, s.Updated, s.Skipped)
}

// StationImporter loads a GeoJSON FeatureCollection into the canonical
// station store.
type StationImporter interface {
	Import(ctx context.Context, path string) (StationImportStats, error)
}

// PageImportParams selects the input and the destination of a legacy
// station page import.
type PageImportParams struct {
	Path string

	// IndexID selects an existing index page. When zero, the index page
	// is looked up by IndexSlug and created with IndexTitle if missing.
	IndexID    int64
	IndexSlug  string
	IndexTitle string

	// CategoryID selects an existing category page. When zero, the
	// category page is looked up under the index page by CategorySlug and
	// created if missing.
	CategoryID   int64
	CategorySlug string
	Category     string

	// System keeps only records of this transit system (records without
	// a system are always kept).
	System string
}

// PageImportStats summarizes a legacy station page import.
type PageImportStats struct {
	Candidates int
	Created    int
	Updated    int
	Skipped    int
}

func (s PageImportStats) String() string {
	return fmt.Sprintf("Candidates: %d, created: %d, updated: %d, skipped: %d",
		s.Candidates, s.Created, s.Updated, s.Skipped)
}

// PageImporter creates legacy station pages from a flat JSON dataset.
type PageImporter interface {
	Import(ctx context.Context, params PageImportParams) (PageImportStats, error)
}
