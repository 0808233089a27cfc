package exportmap

import (
	"context"
)

// flatten completes the deferred links produced by the single-pass build,
// mutating m in place.
//
// Star re-exports pull the target map through the same cached build path
// used by top-level queries, then merge every name not already present
// (first-declared-wins across multiple stars; the default export is never
// re-exported implicitly). Namespace-valued entries get the target map
// attached as their Namespace instead of being flattened.
func (e *Engine) flatten(ctx context.Context, m *ExportMap, res buildResult, cfg Config, fp string, visiting map[visitKey]*ExportMap) {
	for _, link := range res.namespaces {
		target := e.resolveTarget(ctx, link.source, m.Path, cfg, fp, visiting)
		if target == nil {
			continue
		}
		if entry := m.Get(link.name); entry != nil {
			entry.Namespace = target
		}
	}

	for _, link := range res.stars {
		target := e.resolveTarget(ctx, link.source, m.Path, cfg, fp, visiting)
		if target == nil {
			// Unresolvable or missing target: the star contributes
			// nothing, the map itself stays usable.
			continue
		}
		for _, name := range target.Names() {
			if name == DefaultName {
				continue
			}
			if m.Has(name) {
				continue
			}
			m.set(name, target.Get(name))
		}
	}
}

// resolveTarget maps a re-export specifier to the target file's export
// map, or nil when the target cannot be resolved or does not exist. A
// cyclic target returns its partially built map via the visiting set.
func (e *Engine) resolveTarget(ctx context.Context, specifier, fromFile string, cfg Config, fp string, visiting map[visitKey]*ExportMap) *ExportMap {
	path, found, err := e.resolver.Resolve(specifier, fromFile)
	if err != nil {
		e.logger.Warn("resolver failed during flatten",
			"specifier", specifier, "from", fromFile, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return e.getCached(ctx, path, cfg, fp, visiting)
}
