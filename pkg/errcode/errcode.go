package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnknownDriverError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaSeedError

	// Input errors
	InputNotFoundError
	InputDecodeError
	InputNotArrayError
	InputNotFeatureCollectionError

	// Store errors
	StoreBeginError
	StoreCommitError
	StoreQueryError
	StoreWriteError
	StoreValidationError
	StoreSlugTakenError

	// Page tree errors
	PageNotFoundError
	IndexPageNotFoundError
	IndexPageSelectorError
	IndexSlugTakenError
	HomePageNotFoundError
	CategoryPageNotFoundError
	StationPageValidationError
	StationNotFoundError
	RouteNotFoundError
	PageKindError

	// CLI errors
	OutputFormatError
)
