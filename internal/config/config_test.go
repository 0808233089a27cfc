package config

import (
	"os"
	"path/filepath"
	"testing"

	"esmap/internal/parser"
)

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ".esmap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.Dialect != "javascript" || !cfg.Parser.AutoDetect {
		t.Errorf("parser defaults = %+v", cfg.Parser)
	}
	if len(cfg.Resolver.Extensions) == 0 {
		t.Error("default resolver extensions are empty")
	}
	if cfg.Index.Path != ".esmap/index.db" {
		t.Errorf("index path = %q", cfg.Index.Path)
	}
}

func TestLoadJSON(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.json", `{
		"parser": {"dialect": "typescript", "sourceType": "module", "autoDetect": false},
		"resolver": {"extensions": [".ts"]},
		"logging": {"level": "debug"}
	}`)

	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.Dialect != "typescript" || cfg.Parser.AutoDetect {
		t.Errorf("parser = %+v, want typescript without auto-detect", cfg.Parser)
	}
	if len(cfg.Resolver.Extensions) != 1 || cfg.Resolver.Extensions[0] != ".ts" {
		t.Errorf("extensions = %v, want [.ts]", cfg.Resolver.Extensions)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Index.Path != ".esmap/index.db" {
		t.Errorf("unset index section lost its default: %q", cfg.Index.Path)
	}
}

func TestLoadTOMLFallback(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.toml", `
[parser]
dialect = "tsx"
autoDetect = false

[logging]
level = "warn"
`)

	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.Dialect != "tsx" {
		t.Errorf("dialect = %q, want tsx", cfg.Parser.Dialect)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Index.Path != ".esmap/index.db" {
		t.Errorf("unset index section lost its default: %q", cfg.Index.Path)
	}
}

func TestJSONPreferredOverTOML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.json", `{"logging": {"level": "debug"}}`)
	writeConfig(t, root, "config.toml", "[logging]\nlevel = \"error\"\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want the json value", cfg.Logging.Level)
	}
}

func TestEngineConfigAutoDetect(t *testing.T) {
	cfg := DefaultConfig()

	eng, err := cfg.EngineConfig("src/app.ts")
	if err != nil {
		t.Fatal(err)
	}
	if eng.Parser.Dialect != parser.DialectTypeScript {
		t.Errorf("dialect = %v, want typescript for a .ts file", eng.Parser.Dialect)
	}

	cfg.Parser.AutoDetect = false
	eng, err = cfg.EngineConfig("src/app.ts")
	if err != nil {
		t.Fatal(err)
	}
	if eng.Parser.Dialect != parser.DialectJavaScript {
		t.Errorf("dialect = %v, want the configured javascript", eng.Parser.Dialect)
	}
}

func TestEngineConfigRejectsBadDialect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.Dialect = "cobol"
	if _, err := cfg.EngineConfig("a.js"); err == nil {
		t.Error("unknown dialect accepted")
	}
}
