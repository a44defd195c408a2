// Package main provides jobquery, a terminal client for the job store the
// engine maintains.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"jobscanner-engine/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "jobquery",
	Short: "Query and manage scraped job postings",
	Long:  "jobquery reads the engine's job database: list, search and aggregate stored postings, and mark them processed.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the jobs database (default: $JOBSCANNER_DATA_DIR/jobscanner.db)")
}

func openStore() (*store.DB, error) {
	path := dbPath
	if path == "" {
		dataDir := os.Getenv("JOBSCANNER_DATA_DIR")
		if dataDir == "" {
			dataDir = "."
		}
		path = filepath.Join(dataDir, "jobscanner.db")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no database at %s (is the engine set up?)", path)
	}
	return store.Open(path)
}
