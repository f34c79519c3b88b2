package lifecycle_test

import (
	"testing"

	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestStatsOutput(t *testing.T) {
	assert := assert.New(t)

	st := lifecycle.StationImportStats{Processed: 10, Created: 6,
		Updated: 2, Skipped: 2}
	assert.Equal("Processed: 10, created: 6, updated: 2, skipped: 2",
		st.String())

	pg := lifecycle.PageImportStats{Candidates: 5, Created: 3, Updated: 1,
		Skipped: 1}
	assert.Equal("Candidates: 5, created: 3, updated: 1, skipped: 1",
		pg.String())

	sy := lifecycle.SyncStats{SystemsCreated: 2, LinesCreated: 5,
		LinesUpdated: 1}
	assert.Equal(
		"Systems created: 2, updated: 0; lines created: 5, updated: 1",
		sy.String())
	assert.Equal(8, sy.Writes())
}
