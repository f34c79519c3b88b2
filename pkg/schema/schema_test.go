package schema_test

import (
	"testing"

	"github.com/gnames/transitdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestStationTableDDL(t *testing.T) {
	ddl := schema.Station{}.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS stations")
	assert.Contains(t, ddl, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, ddl, "uuid VARCHAR(36) NOT NULL UNIQUE")
	assert.Contains(t, ddl, "station_label VARCHAR(200) NOT NULL DEFAULT ''")
	assert.Contains(t, ddl, "station_codes VARCHAR(120)")
	assert.Contains(t, ddl, "opening DATE")
	assert.Contains(t, ddl, "latitude TEXT")
	assert.Contains(t, ddl, "raw_properties TEXT NOT NULL DEFAULT '{}'")
}

func TestStationIndexDDL(t *testing.T) {
	idx := schema.Station{}.IndexDDL()
	assert.Len(t, idx, 2)
	assert.Contains(t, idx[0], "UNIQUE INDEX")
	assert.Contains(t, idx[0], "stations(station_qid, line_qid)")
}

func TestPageTableDDL(t *testing.T) {
	ddl := schema.Page{}.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS pages")
	assert.Contains(t, ddl, "parent_id INTEGER REFERENCES pages(id)")
	assert.Contains(t, ddl, "live BOOLEAN NOT NULL DEFAULT FALSE")
	assert.Contains(t, ddl, "url_path TEXT NOT NULL")
	assert.Contains(t, schema.Page{}.IndexDDL()[0], "pages(parent_id, slug)")
}

func TestTableNames(t *testing.T) {
	var names []string
	for _, v := range schema.AllModels() {
		names = append(names, v.TableName())
	}
	assert.Equal(t, []string{"pages", "page_revisions", "stations"}, names)
}

func TestColumns(t *testing.T) {
	cols := schema.Columns(schema.PageRevision{})
	assert.Equal(t, []string{"id", "page_id", "content", "created_at"}, cols)
	assert.Equal(t, cols, schema.Columns(&schema.PageRevision{}))
}
