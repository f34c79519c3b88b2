package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Columns returns the `db` column names of a model in field order.
func Columns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []string
	for i := 0; i < t.NumField(); i++ {
		if col := t.Field(i).Tag.Get("db"); col != "" {
			res = append(res, col)
		}
	}
	return res
}

func (p Page) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Page) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_parent_slug " +
			"ON pages(parent_id, slug);",
		"CREATE INDEX IF NOT EXISTS idx_pages_kind ON pages(kind);",
		"CREATE INDEX IF NOT EXISTS idx_pages_url_path ON pages(url_path);",
	}
}

func (p Page) TableName() string {
	return "pages"
}

func (r PageRevision) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r PageRevision) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_page_revisions_page_id " +
			"ON page_revisions(page_id);",
	}
}

func (r PageRevision) TableName() string {
	return "page_revisions"
}

func (s Station) TableDDL() string {
	return generateDDL(s, s.TableName())
}

func (s Station) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS unique_station_per_line " +
			"ON stations(station_qid, line_qid);",
		"CREATE INDEX IF NOT EXISTS idx_stations_system_label " +
			"ON stations(system_label);",
	}
}

func (s Station) TableName() string {
	return "stations"
}
