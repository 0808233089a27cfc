package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"esmap/internal/index"
)

var indexList bool

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Scan a source tree into the persistent export index",
	Long: `Walk a directory tree and store the export map of every module file
in the SQLite index at the configured path. Files whose modification
time is unchanged since the last scan are skipped.

Examples:
  esmap index
  esmap index src/
  esmap index --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexList, "list", false, "List indexed files instead of scanning")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	dbPath := cfg.Index.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(rootFlag, dbPath)
	}
	store, err := index.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if indexList {
		files, err := store.ListFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%s\texports=%d errors=%d indexed=%s\n",
				f.Path, f.ExportCount, f.ErrorCount, f.IndexedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%d files indexed\n", len(files))
		return nil
	}

	dir := rootFlag
	if len(args) == 1 {
		dir = args[0]
	}

	scanner := index.NewScanner(newEngine(cfg, logger), store, cfg, logger)
	result, err := scanner.Scan(context.Background(), dir)
	if err != nil {
		return err
	}

	fmt.Printf("Scan %s: %d scanned, %d unchanged, %d failed (%s)\n",
		result.ScanID, result.Scanned, result.Skipped, result.Failed, result.Elapsed.Round(1e6))
	return nil
}
