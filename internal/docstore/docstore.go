// Package docstore provides a flat JSON document store with pluggable
// file backends. Documents are schemaless JSON objects keyed by a string
// "id" field. The store itself does not enforce id uniqueness; callers
// that need at-most-one-per-id semantics check before inserting.
package docstore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IDField is the document field used as the lookup key.
const IDField = "id"

// Record is a single schemaless JSON document.
type Record map[string]any

// ID returns the record's id field formatted as a string.
// Returns "" when the field is absent.
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Store is the document-store engine: a flat collection of records
// supporting lookup, insert, removal, truncation, and full iteration.
type Store interface {
	// Search returns every record whose id equals the given value.
	Search(id string) ([]Record, error)

	// Insert adds a record to the store. The record must carry an id field.
	// Insert does not check for existing records with the same id.
	Insert(rec Record) error

	// Remove deletes every record with the given id and returns how many
	// were deleted.
	Remove(id string) (int, error)

	// Truncate removes all records.
	Truncate() error

	// All returns every record in the store.
	All() ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// Open opens the store backed by the given file, creating it if needed.
// The backend is chosen by extension: .db, .sqlite, and .sqlite3 open a
// SQLite store; everything else opens the JSONL file store.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return OpenJSONL(path), nil
	}
}
