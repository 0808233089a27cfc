package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"esmap/internal/config"
	"esmap/internal/exportmap"
	"esmap/internal/resolver"
	"esmap/internal/slogutil"
	"esmap/internal/version"
)

var (
	rootFlag    string
	verboseFlag int
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "esmap",
	Short: "esmap - ECMAScript export map analyzer",
	Long: `esmap analyzes ECMAScript module files and produces, per file, a map of
the names it exports: named exports, the default export and flattened
star re-exports, together with documentation tags and parse diagnostics.

Lint tooling consumes these maps to validate imports; esmap itself can
dump single-file maps, maintain a persistent index of a source tree, and
emit a SCIP index for interop with SCIP consumers.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("esmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Project root (location of .esmap/)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all log output")
}

// setup loads configuration and builds the logger shared by all commands.
// CLI verbosity flags override the configured log level.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(rootFlag)
	if err != nil {
		return nil, nil, err
	}

	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verboseFlag > 0 || quietFlag {
		level = slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	}
	return cfg, slogutil.NewStderrLogger(level), nil
}

// newEngine builds the export-map engine from the loaded configuration.
func newEngine(cfg *config.Config, logger *slog.Logger) *exportmap.Engine {
	return exportmap.NewEngine(resolver.NewNode(cfg.ResolverSettings()), logger)
}
