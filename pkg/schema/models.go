// Package schema provides database schema models for transitdb.
// Models carry three sets of tags: `db` for sqlx scanning, `gorm` for
// PostgreSQL AutoMigrate and `ddl` for the SQLite schema.
package schema

import (
	"database/sql"
	"time"
)

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Page is a node of the content tree. Kind-specific fields are kept as
// JSON in Data.
type Page struct {
	ID int64 `db:"id" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT" gorm:"primaryKey"`

	// ParentID is NULL only for the tree root.
	ParentID sql.NullInt64 `db:"parent_id" ddl:"INTEGER REFERENCES pages(id)" gorm:"uniqueIndex:idx_pages_parent_slug"`

	// Kind is the page type name, see transit.Kind.
	Kind string `db:"kind" ddl:"VARCHAR(40) NOT NULL" gorm:"type:varchar(40);not null;index"`

	Title string `db:"title" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`

	// Slug is unique among siblings.
	Slug string `db:"slug" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null;uniqueIndex:idx_pages_parent_slug"`

	Live bool `db:"live" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`

	// URLPath is the slash-joined path of slugs from the root.
	URLPath string `db:"url_path" ddl:"TEXT NOT NULL" gorm:"column:url_path;type:text;not null;index"`

	// Position orders siblings by creation.
	Position int `db:"position" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	Data string `db:"data" ddl:"TEXT NOT NULL DEFAULT '{}'" gorm:"type:text;not null;default:'{}'"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
}

// PageRevision is a JSON snapshot of a page taken on publish.
type PageRevision struct {
	ID        int64     `db:"id" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT" gorm:"primaryKey"`
	PageID    int64     `db:"page_id" ddl:"INTEGER NOT NULL REFERENCES pages(id)" gorm:"not null;index"`
	Content   string    `db:"content" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`
	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
}

// Station is a canonical transit station record. The pair
// (station_qid, line_qid) is the natural key.
type Station struct {
	ID int64 `db:"id" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT" gorm:"primaryKey"`

	// UUID is a version 5 UUID of the natural key.
	UUID string `db:"uuid" ddl:"VARCHAR(36) NOT NULL UNIQUE" gorm:"column:uuid;type:varchar(36);not null;uniqueIndex"`

	StationLabel string `db:"station_label" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"type:varchar(200);not null;default:''"`
	StationQID   string `db:"station_qid" ddl:"VARCHAR(40) NOT NULL DEFAULT ''" gorm:"column:station_qid;type:varchar(40);not null;default:'';uniqueIndex:unique_station_per_line"`
	SystemLabel  string `db:"system_label" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"type:varchar(200);not null;default:'';index"`
	SystemQID    string `db:"system_qid" ddl:"VARCHAR(40) NOT NULL DEFAULT ''" gorm:"column:system_qid;type:varchar(40);not null;default:''"`
	LineLabel    string `db:"line_label" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"type:varchar(200);not null;default:''"`
	LineQID      string `db:"line_qid" ddl:"VARCHAR(40) NOT NULL DEFAULT ''" gorm:"column:line_qid;type:varchar(40);not null;default:'';uniqueIndex:unique_station_per_line"`

	Opening      sql.NullTime `db:"opening" ddl:"DATE" gorm:"type:date"`
	StationCodes string       `db:"station_codes" ddl:"VARCHAR(120) NOT NULL DEFAULT ''" gorm:"type:varchar(120);not null;default:''"`

	// Coordinates are exact decimals with six fractional digits. SQLite
	// keeps their text form.
	Latitude  sql.NullString `db:"latitude" ddl:"TEXT" gorm:"type:numeric(9,6)"`
	Longitude sql.NullString `db:"longitude" ddl:"TEXT" gorm:"type:numeric(9,6)"`

	RawProperties string `db:"raw_properties" ddl:"TEXT NOT NULL DEFAULT '{}'" gorm:"type:text;not null;default:'{}'"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
}
