package docstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a SQLite database. Documents are kept
// as JSON text alongside their extracted id. The id column deliberately
// has no unique index: uniqueness is the caller's contract, not the
// engine's, and duplicate rows must remain representable.
type SQLiteStore struct {
	db *sql.DB
}

const entriesDDL = `CREATE TABLE IF NOT EXISTS entries (
  id TEXT NOT NULL,
  doc TEXT NOT NULL
)`

// OpenSQLite opens a SQLite-backed store, creating the database and the
// entries table if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(entriesDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating entries table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Search returns every record whose id equals the given value.
func (s *SQLiteStore) Search(id string) ([]Record, error) {
	rows, err := s.db.Query("SELECT doc FROM entries WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	return scanDocs(rows)
}

// Insert adds a record. The record must carry an id field.
func (s *SQLiteStore) Insert(rec Record) error {
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("record has no %s field", IDField)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if _, err := s.db.Exec("INSERT INTO entries (id, doc) VALUES (?, ?)", id, string(data)); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// Remove deletes every record with the given id.
func (s *SQLiteStore) Remove(id string) (int, error) {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Truncate removes all records.
func (s *SQLiteStore) Truncate() error {
	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("truncating entries: %w", err)
	}
	return nil
}

// All returns every record in the store.
func (s *SQLiteStore) All() ([]Record, error) {
	rows, err := s.db.Query("SELECT doc FROM entries")
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	return scanDocs(rows)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanDocs decodes the doc column of each row back into a Record.
func scanDocs(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}

		var rec Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decoding stored record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
