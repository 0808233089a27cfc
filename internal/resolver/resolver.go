// Package resolver maps module specifiers to absolute file paths.
//
// The export-map engine depends only on the Resolver interface; lint
// tooling may plug in project-specific resolution (webpack aliases,
// tsconfig paths). Node is the default implementation.
package resolver

// Resolver resolves a module specifier relative to the importing file.
//
// found=false with a nil error means the specifier does not map to an
// analyzable file (core module, unmatched bare specifier, missing file);
// callers treat that as "absent", never as a failure. A non-nil error is
// reserved for unexpected faults such as I/O errors other than not-exist.
type Resolver interface {
	Resolve(specifier, fromFile string) (path string, found bool, err error)
}

// Settings configures the default resolver. Settings participate in the
// analysis cache fingerprint, so any change invalidates cached maps.
type Settings struct {
	// Extensions probed when the specifier has no match as written.
	// Defaults to DefaultExtensions when empty.
	Extensions []string `json:"extensions,omitempty"`

	// Roots are additional directories searched for bare specifiers.
	Roots []string `json:"roots,omitempty"`

	// Extra is passed through opaquely to custom resolvers and hashed
	// into the fingerprint; the default resolver ignores it.
	Extra map[string]string `json:"extra,omitempty"`
}

// DefaultExtensions is the probe order for extensionless specifiers.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}
