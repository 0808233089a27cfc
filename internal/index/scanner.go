package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"esmap/internal/config"
	"esmap/internal/exportmap"
)

// Directories never descended into during a scan.
var skipDirs = map[string]bool{
	".git":         true,
	".esmap":       true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	".cache":       true,
}

var sourceExts = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
}

// IsSourceFile reports whether path has an ECMAScript module extension.
func IsSourceFile(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

// Result summarizes one scan run.
type Result struct {
	ScanID  string
	Scanned int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

// Scanner walks a source tree and indexes the export map of every module
// file whose mtime changed since the last scan.
type Scanner struct {
	engine *exportmap.Engine
	store  *Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewScanner creates a scanner over the given engine and store.
func NewScanner(engine *exportmap.Engine, store *Store, cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		engine: engine,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Scan indexes root. Files that fail to build are counted and logged but
// do not abort the scan.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	lock, err := AcquireLock(filepath.Dir(s.store.dbPath))
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	scanID, err := s.store.BeginScan(root)
	if err != nil {
		return nil, err
	}

	result := &Result{ScanID: scanID}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if info.IsDir() {
			if skipDirs[info.Name()] || s.excluded(root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExts[strings.ToLower(filepath.Ext(path))] || s.excluded(root, path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			result.Failed++
			return nil
		}

		mtime := info.ModTime().Unix()
		if stored, ok, err := s.store.FileMtime(abs); err != nil {
			return err
		} else if ok && stored == mtime {
			result.Skipped++
			return nil
		}

		engCfg, err := s.cfg.EngineConfig(abs)
		if err != nil {
			return err
		}
		m, err := s.engine.Parse(ctx, abs, engCfg)
		if err != nil {
			s.logger.Warn("failed to build export map", "path", abs, "error", err)
			result.Failed++
			return nil
		}

		if err := s.store.SaveFile(abs, mtime, m, scanID); err != nil {
			return err
		}
		result.Scanned++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.CompleteScan(scanID, result.Scanned, result.Skipped, result.Failed); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	s.logger.Info("scan complete",
		"scanId", scanID,
		"scanned", result.Scanned,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"elapsed", result.Elapsed)
	return result, nil
}

// excluded checks config exclude patterns, matching both globs and
// directory prefixes, with paths normalized to forward slashes.
func (s *Scanner) excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	normalized := filepath.ToSlash(rel)

	for _, pattern := range s.cfg.Index.Excludes {
		p := filepath.ToSlash(pattern)
		if matched, _ := filepath.Match(p, normalized); matched {
			return true
		}
		dir := strings.TrimSuffix(p, "/") + "/"
		if strings.HasPrefix(normalized, dir) || normalized == strings.TrimSuffix(p, "/") {
			return true
		}
	}
	return false
}
