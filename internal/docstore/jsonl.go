package docstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxLineCapacity = 1024 * 1024

// JSONLStore is a Store backed by a JSONL file: one JSON document per line.
// Rewrites (Remove, Truncate) go through a temp file + rename so the backing
// file is never left half-written.
type JSONLStore struct {
	path string
}

// OpenJSONL opens a JSONL-backed store. The file is created lazily on the
// first insert or rewrite.
func OpenJSONL(path string) *JSONLStore {
	return &JSONLStore{path: path}
}

// Path returns the backing file path.
func (s *JSONLStore) Path() string {
	return s.path
}

// All reads every record from the backing file.
// A missing file reads as an empty store.
func (s *JSONLStore) All() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening store file: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	return records, nil
}

// Search returns every record whose id equals the given value.
func (s *JSONLStore) Search(id string) ([]Record, error) {
	records, err := s.All()
	if err != nil {
		return nil, err
	}

	var matches []Record
	for _, rec := range records {
		if rec.ID() == id {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Insert appends a record to the backing file.
func (s *JSONLStore) Insert(rec Record) error {
	if rec.ID() == "" {
		return fmt.Errorf("record has no %s field", IDField)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening store file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// Remove deletes every record with the given id, rewriting the backing file.
func (s *JSONLStore) Remove(id string) (int, error) {
	records, err := s.All()
	if err != nil {
		return 0, err
	}

	removed := 0
	var kept []Record
	for _, rec := range records {
		if rec.ID() == id {
			removed++
			continue
		}
		kept = append(kept, rec)
	}

	if removed == 0 {
		return 0, nil
	}

	if err := s.writeAll(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Truncate removes all records, leaving an empty backing file.
func (s *JSONLStore) Truncate() error {
	return s.writeAll(nil)
}

// Close is a no-op; the JSONL store holds no open handles between calls.
func (s *JSONLStore) Close() error {
	return nil
}

// writeAll rewrites the backing file atomically via temp file + rename.
func (s *JSONLStore) writeAll(records []Record) error {
	dir := filepath.Dir(s.path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			tmpFile.Close()
			return fmt.Errorf("encoding record %d: %w", i, err)
		}

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if _, err := tmpFile.WriteString("\n"); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
