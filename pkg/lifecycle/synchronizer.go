package lifecycle

import (
	"context"
	"fmt"
)

// SyncParams selects the index page to synchronize.
type SyncParams struct {
	IndexID   int64
	IndexSlug string
	// AllSystems mirrors every system of the station store instead of the
	// system filters of the index page.
	AllSystems bool
}

// SyncStats summarizes a hierarchy synchronization.
type SyncStats struct {
	// Systems are the system labels that were processed.
	Systems        []string
	SystemsCreated int
	SystemsUpdated int
	LinesCreated   int
	LinesUpdated   int
}

func (s SyncStats) String() string {
	return fmt.Sprintf(
		"Systems created: %d, updated: %d; lines created: %d, updated: %d",
		s.SystemsCreated, s.SystemsUpdated, s.LinesCreated, s.LinesUpdated)
}

// Writes returns the total number of pages created or updated.
func (s SyncStats) Writes() int {
	return s.SystemsCreated + s.SystemsUpdated + s.LinesCreated + s.LinesUpdated
}

// Synchronizer mirrors canonical station data into system and line pages
// under an index page.
type Synchronizer interface {
	Sync(ctx context.Context, params SyncParams) (SyncStats, error)
}
