// Package main provides the sampledb CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/sampledb/internal/config"
	"github.com/matsen/sampledb/internal/docstore"
	"github.com/matsen/sampledb/internal/syncer"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	dbPath       string
	samplesDir   string
	byID         string
	jsonIndent   int
	loadData     bool
	extractData  bool
	deleteData   bool
	listIDs      bool
	truncateDB   bool
	keepExisting bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sampledb",
	Short: "Synchronize a JSON document store with a directory of sample files",
	Long: `sampledb synchronizes a flat JSON document store with a directory of
individual JSON files ("samples"). Each sample file <id>.json becomes a
store entry whose id field is the filename stem.

The store backend is chosen by the --DB file extension: .db/.sqlite/.sqlite3
open a SQLite store, anything else a JSONL file store.

Examples:
  # load samples into the store
  sampledb --loadData --DB ./db.jsonl --samplesDir ./samples

  # load, keeping entries whose ID already exists
  sampledb --loadData --DB ./db.jsonl --samplesDir ./samples --keepExisting

  # load, truncating the store first
  sampledb --loadData --DB ./db.jsonl --samplesDir ./samples --truncateDB

  # list existing IDs
  sampledb --listIDs --DB ./db.jsonl

  # extract all samples, pretty-printed
  sampledb --extractData --DB ./db.jsonl --samplesDir ./samples2 --jsonIndent 4

  # extract a single entry
  sampledb --extractData --DB ./db.jsonl --byID sample02 --samplesDir ./samples2

  # remove one entry / remove everything
  sampledb --deleteData --DB ./db.jsonl --byID sample02
  sampledb --deleteData --DB ./db.jsonl`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "DB", "", "Path to the store's backing file")
	rootCmd.Flags().StringVar(&samplesDir, "samplesDir", "", "Samples directory for load/extract")
	rootCmd.Flags().StringVar(&byID, "byID", "", "Operate on a single entry by ID")
	rootCmd.Flags().IntVar(&jsonIndent, "jsonIndent", 0, "JSON indentation for extracted samples (0 = compact)")
	rootCmd.Flags().BoolVar(&loadData, "loadData", false, "Load samples from samplesDir into the store")
	rootCmd.Flags().BoolVar(&extractData, "extractData", false, "Extract samples from the store to samplesDir")
	rootCmd.Flags().BoolVar(&deleteData, "deleteData", false, "Delete entries from the store")
	rootCmd.Flags().BoolVar(&listIDs, "listIDs", false, "List stored IDs")
	rootCmd.Flags().BoolVar(&truncateDB, "truncateDB", false, "Truncate the store before loading")
	rootCmd.Flags().BoolVar(&keepExisting, "keepExisting", false, "Keep entries whose ID already exists when loading")
	rootCmd.Version = Version
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	db := resolveDBPath()
	if db == "" {
		exitWithError(ExitConfigError, "--DB is required (or set db_path in %s)", config.Path())
	}

	if !loadData && !extractData && !deleteData && !listIDs {
		exitWithError(ExitError, "no operation selected: use --loadData, --extractData, --deleteData, or --listIDs")
	}

	dir := resolveSamplesDir()
	indent := resolveJSONIndent(cmd)

	store, err := docstore.Open(db)
	if err != nil {
		exitWithError(ExitError, "opening store %s: %v", db, err)
	}
	defer store.Close()

	s := syncer.New(store, os.Stdout)

	if loadData {
		if dir == "" {
			exitWithError(ExitConfigError, "--samplesDir is required with --loadData")
		}
		if err := s.LoadAll(dir, truncateDB, keepExisting); err != nil {
			exitWithError(ExitDataError, "loading samples: %v", err)
		}
	}

	if extractData {
		if dir == "" {
			exitWithError(ExitConfigError, "--samplesDir is required with --extractData")
		}
		if byID != "" {
			if err := s.SaveOne(dir, byID, indent); err != nil {
				exitWithError(ExitDataError, "extracting %s: %v", byID, err)
			}
		} else {
			if err := s.SaveAll(dir, indent); err != nil {
				exitWithError(ExitDataError, "extracting samples: %v", err)
			}
		}
	}

	if deleteData {
		if byID != "" {
			if err := s.Remove(byID); err != nil {
				exitWithError(ExitError, "removing %s: %v", byID, err)
			}
		} else {
			if err := s.Truncate(); err != nil {
				exitWithError(ExitError, "truncating store: %v", err)
			}
		}
	}

	if listIDs {
		if err := s.ListIDs(); err != nil {
			exitWithError(ExitError, "listing IDs: %v", err)
		}
	}

	return nil
}

// resolveDBPath resolves the store path: flag, then environment, then
// global config.
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("SAMPLEDB_DB"); env != "" {
		return env
	}
	return config.GetDBPath()
}

// resolveSamplesDir resolves the samples directory: flag, then environment,
// then global config.
func resolveSamplesDir() string {
	if samplesDir != "" {
		return samplesDir
	}
	if env := os.Getenv("SAMPLEDB_SAMPLES_DIR"); env != "" {
		return env
	}
	return config.GetSamplesDir()
}

// resolveJSONIndent resolves the indentation: an explicit flag wins over
// the global config default.
func resolveJSONIndent(cmd *cobra.Command) int {
	if cmd.Flags().Changed("jsonIndent") {
		return jsonIndent
	}
	if v := config.GetJSONIndent(); v > 0 {
		return v
	}
	return jsonIndent
}
