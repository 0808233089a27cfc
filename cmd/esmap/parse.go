package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	parseFormat  string
	parseDialect string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Build and print the export map of one file",
	Long: `Build the export map for a single module file and print it.

Star re-exports are followed and flattened, so the output shows the
complete set of names importers can see, including names contributed by
other files.

Examples:
  esmap parse src/index.js
  esmap parse --format=yaml --dialect=typescript src/api.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "Output format (json, yaml)")
	parseCmd.Flags().StringVar(&parseDialect, "dialect", "", "Override parser dialect (javascript, typescript, tsx)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if parseDialect != "" {
		cfg.Parser.Dialect = parseDialect
		cfg.Parser.AutoDetect = false
	}

	engCfg, err := cfg.EngineConfig(args[0])
	if err != nil {
		return err
	}

	engine := newEngine(cfg, logger)
	m, err := engine.Parse(context.Background(), args[0], engCfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	switch parseFormat {
	case "json":
		fmt.Println(string(data))
	case "yaml":
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", parseFormat)
	}
	return nil
}
