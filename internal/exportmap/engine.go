package exportmap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"esmap/internal/parser"
	"esmap/internal/resolver"
)

// Context names the importing file and its analysis configuration for
// specifier-relative queries.
type Context struct {
	Path   string // absolute path of the importing file
	Config Config
}

// visitKey identifies one file-under-construction within a single
// top-level query. The visiting set is threaded explicitly through the
// recursion and never shared across requests, so concurrent unrelated
// queries cannot interfere with each other's cycle detection.
type visitKey struct {
	path        string
	fingerprint string
}

// Engine is the public query facade: it glues cache, path resolver,
// parser adapter and builder together. Construction is synchronous and
// single-threaded; one top-level query fully resolves, including all
// transitive re-export recursion, before returning. Concurrent callers
// must serialize access or accept benign redundant rebuilds.
type Engine struct {
	cache    *Cache
	parser   *parser.Parser
	resolver resolver.Resolver
	logger   *slog.Logger
}

// NewEngine creates an engine with a fresh cache. The cache lives as long
// as the engine; whatever orchestrates a lint run owns both.
func NewEngine(res resolver.Resolver, logger *slog.Logger) *Engine {
	return &Engine{
		cache:    NewCache(logger),
		parser:   parser.New(),
		resolver: res,
		logger:   logger,
	}
}

// Cache exposes the engine's cache, mainly for tests and diagnostics.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Get resolves specifier relative to from.Path and returns the
// cached-or-built export map, or nil when the specifier cannot be
// resolved to an existing file. nil is a value, not an error: callers
// must distinguish "module does not exist" from "module exports nothing".
func (e *Engine) Get(ctx context.Context, specifier string, from Context) *ExportMap {
	path, found, err := e.resolver.Resolve(specifier, from.Path)
	if err != nil {
		e.logger.Warn("resolver failed", "specifier", specifier, "from", from.Path, "error", err)
		return nil
	}
	if !found {
		return nil
	}

	fp := from.Config.Fingerprint()
	visiting := make(map[visitKey]*ExportMap)
	return e.getCached(ctx, path, from.Config, fp, visiting)
}

// Parse builds the export map directly from a known absolute path,
// bypassing specifier resolution. It always returns a map, possibly with
// populated Errors; the error is non-nil only for genuinely unexpected
// faults (I/O failure other than not-exist).
func (e *Engine) Parse(ctx context.Context, path string, cfg Config) (*ExportMap, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot absolutize %s: %w", path, err)
	}

	fp := cfg.Fingerprint()
	visiting := make(map[visitKey]*ExportMap)

	key := visitKey{abs, fp}
	if entry := e.cache.Lookup(abs, fp); e.cache.Valid(entry) {
		return entry.Map, nil
	}

	info, err := os.Stat(abs)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	// A missing file still yields a map: the parser adapter records the
	// read failure as a diagnostic and the build proceeds over an empty
	// tree. Only Get treats missing files as absent.
	return e.buildAt(ctx, key, cfg, visiting, info), nil
}

// getCached is the recursive entry point used by Get and by the namespace
// resolver when it follows star re-exports into other files. It returns
// nil when the target file does not exist.
func (e *Engine) getCached(ctx context.Context, path string, cfg Config, fp string, visiting map[visitKey]*ExportMap) *ExportMap {
	key := visitKey{path, fp}

	// Cycle guard: a file already being built in this request contributes
	// whatever it has built so far instead of recursing again. Direct
	// self-references and longer cycles terminate here.
	if partial, ok := visiting[key]; ok {
		return partial
	}

	if entry := e.cache.Lookup(path, fp); e.cache.Valid(entry) {
		return entry.Map
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warn("stat failed", "path", path, "error", err)
		}
		return nil
	}

	return e.buildAt(ctx, key, cfg, visiting, info)
}

// buildAt performs one full rebuild: parse, single-pass build, register in
// the visiting set, flatten deferred links, store. The cache entry is
// replaced whole, never partially updated.
func (e *Engine) buildAt(ctx context.Context, key visitKey, cfg Config, visiting map[visitKey]*ExportMap, info os.FileInfo) *ExportMap {
	start := time.Now()

	file := e.parser.Parse(ctx, key.path, cfg.Parser)
	m := NewExportMap(key.path)
	res := build(m, file)

	// Register before flattening: recursion back into this file during
	// flatten must see the directly-declared names built above.
	visiting[key] = m
	e.flatten(ctx, m, res, cfg, key.fingerprint, visiting)

	if info != nil {
		e.cache.Store(key.path, key.fingerprint, m, info.ModTime(), info.Size())
	}

	e.logger.Debug("built export map",
		"path", key.path,
		"exports", m.Size(),
		"errors", len(m.Errors),
		"elapsed", time.Since(start))
	return m
}
