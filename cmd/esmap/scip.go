package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esmap/internal/exportmap"
	"esmap/internal/index"
	"esmap/internal/scipconv"
)

var scipOutput string

var scipCmd = &cobra.Command{
	Use:   "scip [dir]",
	Short: "Emit a SCIP index of the tree's exports",
	Long: `Build export maps for every module file under a directory and write
them as a SCIP protobuf index, consumable by SCIP-based tooling.

Examples:
  esmap scip src/ -o index.scip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScip,
}

func init() {
	scipCmd.Flags().StringVarP(&scipOutput, "output", "o", "index.scip", "Output file")
	rootCmd.AddCommand(scipCmd)
}

func runScip(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	dir := rootFlag
	if len(args) == 1 {
		dir = args[0]
	}
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	engine := newEngine(cfg, logger)
	ctx := context.Background()

	var maps []*exportmap.ExportMap
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch info.Name() {
			case ".git", ".esmap", "node_modules", "vendor", "dist", "build":
				return filepath.SkipDir
			}
			return nil
		}
		if !index.IsSourceFile(path) {
			return nil
		}

		engCfg, err := cfg.EngineConfig(path)
		if err != nil {
			return err
		}
		m, err := engine.Parse(ctx, path, engCfg)
		if err != nil {
			logger.Warn("failed to build export map", "path", path, "error", err)
			return nil
		}
		maps = append(maps, m)
		return nil
	})
	if err != nil {
		return err
	}

	scipIndex := scipconv.FromMaps(absRoot, maps)
	if err := scipconv.WriteFile(scipOutput, scipIndex); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d documents\n", scipOutput, len(scipIndex.Documents))
	return nil
}
