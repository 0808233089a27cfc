package exportmap

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"esmap/internal/parser"
	"esmap/internal/resolver"
)

// Config is the analysis configuration for one query. It covers everything
// that can change a file's export map without the file itself changing:
// grammar back-end, parser options and resolver settings. Ignore patterns
// are carried for collaborators but do not affect map contents.
type Config struct {
	Parser   parser.Options    `json:"parser"`
	Resolver resolver.Settings `json:"resolver"`

	// Ignore holds file-path patterns for which collaborators suppress
	// unresolved-import reporting. The engine itself only guarantees it
	// never hard-fails on files matching them.
	Ignore []string `json:"ignore,omitempty"`
}

// Fingerprint summarizes the cache-relevant parts of the configuration.
// Two configs with any differing parser or resolver field produce
// different fingerprints, so they never share cached maps. Ignore patterns
// are deliberately excluded: they do not influence map contents.
func (c Config) Fingerprint() string {
	key := struct {
		Parser   parser.Options    `json:"parser"`
		Resolver resolver.Settings `json:"resolver"`
	}{c.Parser, c.Resolver}

	// encoding/json sorts map keys, so the serialization is canonical.
	data, err := json.Marshal(key)
	if err != nil {
		// Config is plain data; marshal cannot fail in practice.
		data = []byte(err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
