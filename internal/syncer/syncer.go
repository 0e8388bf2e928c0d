// Package syncer implements the store synchronizer: the operations that
// move JSON sample files in and out of a document store and manage the
// entries by id.
//
// Recoverable conditions (missing ids, duplicate ids, non-JSON files in a
// sample directory, pre-existing target directories) are reported as
// human-readable messages on the syncer's writer and processing continues.
// I/O and parse failures are returned as errors.
package syncer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matsen/sampledb/internal/docstore"
)

// sampleExt is the sample file suffix stripped from filenames to derive ids.
const sampleExt = ".json"

// Syncer synchronizes a document store with a directory of sample files.
type Syncer struct {
	store docstore.Store
	out   io.Writer
}

// New creates a Syncer over the given store. Messages are written to out;
// a nil out defaults to stdout.
func New(store docstore.Store, out io.Writer) *Syncer {
	if out == nil {
		out = os.Stdout
	}
	return &Syncer{store: store, out: out}
}

func (s *Syncer) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Exists reports whether the store contains an entry with the given id.
func (s *Syncer) Exists(id string) (bool, error) {
	matches, err := s.store.Search(id)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// Get returns the entry with the given id.
//
// When no entry matches, Get returns ErrNotFound. When more than one
// matches, Get returns the first match together with a *DuplicateIDError;
// the returned record is still usable.
func (s *Syncer) Get(id string) (docstore.Record, error) {
	matches, err := s.store.Search(id)
	if err != nil {
		return nil, err
	}

	switch {
	case len(matches) == 0:
		return nil, ErrNotFound
	case len(matches) > 1:
		return matches[0], &DuplicateIDError{ID: id, Count: len(matches)}
	}
	return matches[0], nil
}

// Truncate removes every entry from the store.
func (s *Syncer) Truncate() error {
	if err := s.store.Truncate(); err != nil {
		return err
	}
	s.printf("DB truncated")
	return nil
}

// Remove deletes the entry with the given id. A missing id is reported
// and treated as a no-op.
func (s *Syncer) Remove(id string) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		s.printf("no data found for ID %s", id)
		return nil
	}

	_, err = s.store.Remove(id)
	return err
}

// IDs returns every id in the store, sorted ascending.
func (s *Syncer) IDs() ([]string, error) {
	records, err := s.store.All()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID())
	}
	sort.Strings(ids)
	return ids, nil
}

// ListIDs prints a count line followed by every id in sorted order, or an
// empty-store message when there are none.
func (s *Syncer) ListIDs() error {
	ids, err := s.IDs()
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		s.printf("the DB is empty")
		return nil
	}

	s.printf("%d IDs found:", len(ids))
	for _, id := range ids {
		s.printf("  %s", id)
	}
	return nil
}

// LoadOne parses jsonFile as a JSON document, sets its id field, and
// inserts it into the store. With keepExisting, an already-present id is
// reported and left untouched; otherwise the existing entry is removed
// first with an overwrite warning.
func (s *Syncer) LoadOne(jsonFile, id string, keepExisting bool) error {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", jsonFile, err)
	}

	var rec docstore.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing %s: %w", jsonFile, err)
	}
	if rec == nil {
		rec = docstore.Record{}
	}
	rec[docstore.IDField] = id

	exists, err := s.Exists(id)
	if err != nil {
		return err
	}

	if keepExisting && exists {
		s.printf("warning: %s already exists, will not add", id)
		return nil
	}

	if exists {
		s.printf("warning: overwriting %s", id)
		if _, err := s.store.Remove(id); err != nil {
			return err
		}
	}

	if err := s.store.Insert(rec); err != nil {
		return err
	}
	s.printf("%s inserted", id)
	return nil
}

// LoadAll loads every sample file in samplesDir into the store, optionally
// truncating it first. Ids are derived from filenames by stripping the
// first ".json" occurrence; files without it are skipped with a warning.
func (s *Syncer) LoadAll(samplesDir string, truncateFirst, keepExisting bool) error {
	s.printf("loading samples from %s, truncate DB: %t, keep existing: %t", samplesDir, truncateFirst, keepExisting)

	if truncateFirst {
		if err := s.Truncate(); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(samplesDir)
	if err != nil {
		return fmt.Errorf("reading samples directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.Contains(name, sampleExt) {
			s.printf("warning: %s has no json extension, skipping", name)
			continue
		}

		id := strings.Replace(name, sampleExt, "", 1)
		if err := s.LoadOne(filepath.Join(samplesDir, name), id, keepExisting); err != nil {
			return err
		}
	}

	return nil
}

// SaveOne serializes the entry with the given id to <samplesDir>/<id>.json.
// indent == 0 writes compact JSON; indent > 0 pretty-prints with that many
// spaces per level. A missing id is reported and treated as a no-op; a
// duplicate id is reported and the first match is written anyway.
func (s *Syncer) SaveOne(samplesDir, id string, indent int) error {
	rec, err := s.Get(id)
	if errors.Is(err, ErrNotFound) {
		s.printf("no data found for ID %s", id)
		return nil
	}

	var dupErr *DuplicateIDError
	if errors.As(err, &dupErr) {
		s.printf("error: invalid number of entries for ID %s", id)
	} else if err != nil {
		return err
	}

	var data []byte
	if indent > 0 {
		data, err = json.MarshalIndent(rec, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("encoding entry %s: %w", id, err)
	}

	path := filepath.Join(samplesDir, id+sampleExt)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveAll serializes every entry to <samplesDir>/<id>.json in sorted id
// order, creating the directory if needed. A pre-existing directory is
// reported and reused.
func (s *Syncer) SaveAll(samplesDir string, indent int) error {
	s.printf("saving samples to %s", samplesDir)

	if _, err := os.Stat(samplesDir); err == nil {
		s.printf("warning: directory %s already exists", samplesDir)
	} else {
		if err := os.MkdirAll(samplesDir, 0755); err != nil {
			return fmt.Errorf("creating samples directory: %w", err)
		}
	}

	ids, err := s.IDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.SaveOne(samplesDir, id, indent); err != nil {
			return err
		}
	}
	return nil
}
