package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetCache()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load (missing file): %v", err)
	}
	if cfg.DBPath != "" || cfg.SamplesDir != "" || cfg.JSONIndent != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	ResetCache()
	t.Cleanup(ResetCache)

	dir := filepath.Join(home, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "db_path: /data/db.jsonl\nsamples_dir: /data/samples\njson_indent: 4\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/data/db.jsonl" {
		t.Errorf("DBPath = %q, want /data/db.jsonl", cfg.DBPath)
	}
	if cfg.SamplesDir != "/data/samples" {
		t.Errorf("SamplesDir = %q, want /data/samples", cfg.SamplesDir)
	}
	if cfg.JSONIndent != 4 {
		t.Errorf("JSONIndent = %d, want 4", cfg.JSONIndent)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	ResetCache()
	t.Cleanup(ResetCache)

	dir := filepath.Join(home, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("db_path: [unclosed"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got := ExpandTilde("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("ExpandTilde(~/data) = %q", got)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandTilde should leave absolute paths unchanged, got %q", got)
	}
	if got := ExpandTilde(""); got != "" {
		t.Errorf("ExpandTilde(\"\") = %q, want empty", got)
	}
}
