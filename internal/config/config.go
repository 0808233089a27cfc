// Package config loads esmap's project configuration from .esmap/.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"esmap/internal/exportmap"
	"esmap/internal/parser"
	"esmap/internal/resolver"
)

// Config is the complete esmap configuration.
type Config struct {
	Parser   ParserConfig   `json:"parser" toml:"parser" mapstructure:"parser"`
	Resolver ResolverConfig `json:"resolver" toml:"resolver" mapstructure:"resolver"`
	Ignore   []string       `json:"ignore" toml:"ignore" mapstructure:"ignore"`
	Logging  LoggingConfig  `json:"logging" toml:"logging" mapstructure:"logging"`
	Index    IndexConfig    `json:"index" toml:"index" mapstructure:"index"`
}

// ParserConfig selects the syntax parser back-end and its options.
type ParserConfig struct {
	Dialect        string `json:"dialect" toml:"dialect" mapstructure:"dialect"`
	SourceType     string `json:"sourceType" toml:"sourceType" mapstructure:"sourceType"`
	AttachComments bool   `json:"attachComments" toml:"attachComments" mapstructure:"attachComments"`

	// AutoDetect overrides Dialect per file based on its extension.
	AutoDetect bool `json:"autoDetect" toml:"autoDetect" mapstructure:"autoDetect"`
}

// ResolverConfig is passed through to the path resolver.
type ResolverConfig struct {
	Extensions []string          `json:"extensions" toml:"extensions" mapstructure:"extensions"`
	Roots      []string          `json:"roots" toml:"roots" mapstructure:"roots"`
	Extra      map[string]string `json:"extra" toml:"extra" mapstructure:"extra"`
}

// LoggingConfig controls CLI log output.
type LoggingConfig struct {
	Level string `json:"level" toml:"level" mapstructure:"level"`
}

// IndexConfig controls the on-disk export index built by `esmap index`.
type IndexConfig struct {
	Path     string   `json:"path" toml:"path" mapstructure:"path"`
	Excludes []string `json:"excludes" toml:"excludes" mapstructure:"excludes"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Dialect:        string(parser.DialectJavaScript),
			SourceType:     "module",
			AttachComments: true,
			AutoDetect:     true,
		},
		Resolver: ResolverConfig{
			Extensions: resolver.DefaultExtensions,
		},
		Ignore: []string{"node_modules"},
		Logging: LoggingConfig{
			Level: "info",
		},
		Index: IndexConfig{
			Path:     ".esmap/index.db",
			Excludes: []string{"node_modules", "dist", "build", "vendor", ".git"},
		},
	}
}

// Load reads the configuration from root's .esmap directory, preferring
// config.json and falling back to config.toml, then to defaults.
func Load(root string) (*Config, error) {
	if cfg, err := loadJSON(root); err != nil {
		return nil, err
	} else if cfg != nil {
		return cfg, nil
	}

	tomlPath := filepath.Join(root, ".esmap", "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return loadTOML(tomlPath)
	}

	return DefaultConfig(), nil
}

// loadJSON reads .esmap/config.json via viper; nil, nil when absent.
func loadJSON(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".esmap"))

	defaults := DefaultConfig()
	v.SetDefault("parser", defaults.Parser)
	v.SetDefault("resolver", defaults.Resolver)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("logging", defaults.Logging)
	v.SetDefault("index", defaults.Index)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// loadTOML reads a TOML config file, filling unset sections from defaults.
func loadTOML(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// EngineConfig converts the file configuration into the analysis config
// consumed by the export-map engine. When AutoDetect is set and path is
// non-empty, the dialect follows the file extension.
func (c *Config) EngineConfig(path string) (exportmap.Config, error) {
	dialect, err := parser.ParseDialect(c.Parser.Dialect)
	if err != nil {
		return exportmap.Config{}, err
	}
	if c.Parser.AutoDetect && path != "" {
		dialect = parser.DialectForPath(path)
	}
	return exportmap.Config{
		Parser: parser.Options{
			Dialect:        dialect,
			SourceType:     c.Parser.SourceType,
			AttachComments: c.Parser.AttachComments,
		},
		Resolver: resolver.Settings{
			Extensions: c.Resolver.Extensions,
			Roots:      c.Resolver.Roots,
			Extra:      c.Resolver.Extra,
		},
		Ignore: c.Ignore,
	}, nil
}

// ResolverSettings converts the resolver section for resolver.NewNode.
func (c *Config) ResolverSettings() resolver.Settings {
	return resolver.Settings{
		Extensions: c.Resolver.Extensions,
		Roots:      c.Resolver.Roots,
		Extra:      c.Resolver.Extra,
	}
}
