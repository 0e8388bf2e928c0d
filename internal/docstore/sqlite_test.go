package docstore

import (
	"path/filepath"
	"testing"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteInsertSearch(t *testing.T) {
	s := newSQLiteStore(t)

	if err := s.Insert(Record{"id": "a", "x": float64(1)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(Record{"id": "b", "x": float64(2)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	matches, err := s.Search("b")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0]["x"] != float64(2) {
		t.Errorf("x = %v, want 2", matches[0]["x"])
	}
}

func TestSQLiteInsert_RequiresID(t *testing.T) {
	s := newSQLiteStore(t)

	if err := s.Insert(Record{"x": 1}); err == nil {
		t.Error("expected error for record without id")
	}
}

func TestSQLiteAllowsDuplicateIDs(t *testing.T) {
	s := newSQLiteStore(t)

	if err := s.Insert(Record{"id": "a", "v": float64(1)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(Record{"id": "a", "v": float64(2)}); err != nil {
		t.Fatalf("Insert (duplicate): %v", err)
	}

	matches, err := s.Search("a")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches for duplicated id, got %d", len(matches))
	}
}

func TestSQLiteRemove(t *testing.T) {
	s := newSQLiteStore(t)

	for _, id := range []string{"a", "b"} {
		if err := s.Insert(Record{"id": id}); err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
	}

	n, err := s.Remove("a")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 1 {
		t.Errorf("Remove returned %d, want 1", n)
	}

	n, err = s.Remove("a")
	if err != nil {
		t.Fatalf("Remove (again): %v", err)
	}
	if n != 0 {
		t.Errorf("Remove returned %d, want 0", n)
	}
}

func TestSQLiteTruncate(t *testing.T) {
	s := newSQLiteStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Insert(Record{"id": id}); err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
	}

	if err := s.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	records, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records after truncate, got %d", len(records))
	}
}
