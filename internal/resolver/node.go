package resolver

import (
	"os"
	"path/filepath"
	"strings"
)

// coreModules are Node built-ins that never resolve to a file.
var coreModules = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"console": true, "constants": true, "crypto": true, "dgram": true,
	"dns": true, "domain": true, "events": true, "fs": true, "http": true,
	"http2": true, "https": true, "module": true, "net": true, "os": true,
	"path": true, "perf_hooks": true, "process": true, "punycode": true,
	"querystring": true, "readline": true, "repl": true, "stream": true,
	"string_decoder": true, "timers": true, "tls": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "worker_threads": true,
	"zlib": true,
}

// Node resolves specifiers the way Node.js resolves relative imports:
// exact path, then extension probing, then directory index files. Bare
// specifiers are only matched under configured roots; package resolution
// through node_modules is a lint-tool concern, not ours.
type Node struct {
	settings Settings
}

// NewNode creates the default resolver.
func NewNode(settings Settings) *Node {
	return &Node{settings: settings}
}

// Resolve implements Resolver.
func (r *Node) Resolve(specifier, fromFile string) (string, bool, error) {
	if specifier == "" {
		return "", false, nil
	}
	if isCoreModule(specifier) {
		return "", false, nil
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		base := filepath.Join(filepath.Dir(fromFile), specifier)
		return r.probe(base)
	}
	if filepath.IsAbs(specifier) {
		return r.probe(specifier)
	}

	// Bare specifier: only configured roots are searched.
	for _, root := range r.settings.Roots {
		if path, found, err := r.probe(filepath.Join(root, specifier)); err != nil || found {
			return path, found, err
		}
	}
	return "", false, nil
}

// probe tries base as written, base+ext for each extension, then
// base/index+ext when base is a directory.
func (r *Node) probe(base string) (string, bool, error) {
	exts := r.settings.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	if ok, isDir, err := statFile(base); err != nil {
		return "", false, err
	} else if ok && !isDir {
		return mustAbs(base), true, nil
	} else if ok && isDir {
		for _, ext := range exts {
			candidate := filepath.Join(base, "index"+ext)
			if ok, isDir, err := statFile(candidate); err != nil {
				return "", false, err
			} else if ok && !isDir {
				return mustAbs(candidate), true, nil
			}
		}
		return "", false, nil
	}

	for _, ext := range exts {
		candidate := base + ext
		if ok, isDir, err := statFile(candidate); err != nil {
			return "", false, err
		} else if ok && !isDir {
			return mustAbs(candidate), true, nil
		}
	}
	return "", false, nil
}

func isCoreModule(specifier string) bool {
	if strings.HasPrefix(specifier, "node:") {
		return true
	}
	return coreModules[specifier]
}

// statFile reports existence without turning not-exist into an error.
func statFile(path string) (exists, isDir bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, err
	}
	return true, info.IsDir(), nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
