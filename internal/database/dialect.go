package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect hides the differences between the supported SQL backends
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders when the driver wants another syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether sql.Result.LastInsertId works
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool limits and per-connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory under migrations/ for this backend
	MigrationsSubdir() string

	// CreateMigrationsTableQuery creates the applied-migrations bookkeeping table
	CreateMigrationsTableQuery() string

	// TrimHistoryQuery deletes a child's emotion history rows beyond the newest N.
	// Arguments: child id, child id, N.
	TrimHistoryQuery() string

	// ResyncSequenceQuery realigns an id sequence after rows were inserted with
	// explicit ids. Empty when the backend does not need it.
	ResyncSequenceQuery(table string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// SQLite file path
	Path string

	// PostgreSQL/MySQL connection URL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// trimHistoryWithSubquery works on backends that accept LIMIT inside IN (...)
const trimHistoryWithSubquery = `
	DELETE FROM emotion_history
	WHERE child_id = ? AND id NOT IN (
		SELECT id FROM emotion_history WHERE child_id = ? ORDER BY id DESC LIMIT ?
	)`
