// Package scipconv renders export maps as a SCIP index, so SCIP-speaking
// tools (symbol browsers, cross-repo search) can consume esmap output.
package scipconv

import (
	"fmt"
	"os"
	"path/filepath"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"esmap/internal/exportmap"
	"esmap/internal/version"
)

// FromMaps converts export maps into a SCIP index rooted at projectRoot.
// One Document per file, one SymbolInformation plus definition Occurrence
// per exported name. Deprecation tags surface as symbol documentation.
func FromMaps(projectRoot string, maps []*exportmap.ExportMap) *scippb.Index {
	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:    "esmap",
				Version: version.Version,
			},
			ProjectRoot:          "file://" + filepath.ToSlash(projectRoot),
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	for _, m := range maps {
		rel, err := filepath.Rel(projectRoot, m.Path)
		if err != nil {
			rel = m.Path
		}
		doc := &scippb.Document{
			RelativePath: filepath.ToSlash(rel),
			Language:     "javascript",
		}

		for _, name := range m.Names() {
			entry := m.Get(name)
			symbol := symbolID(doc.RelativePath, name)

			info := &scippb.SymbolInformation{
				Symbol:      symbol,
				DisplayName: name,
			}
			if entry.Doc != nil {
				if entry.Doc.Description != "" {
					info.Documentation = append(info.Documentation, entry.Doc.Description)
				}
				for _, tag := range entry.Doc.Tags {
					info.Documentation = append(info.Documentation,
						fmt.Sprintf("@%s %s", tag.Title, tag.Description))
				}
			}
			doc.Symbols = append(doc.Symbols, info)

			// Occurrences only make sense for names declared in this file;
			// star-flattened entries point at their origin file instead.
			if entry.Node.Path != m.Path {
				continue
			}
			doc.Occurrences = append(doc.Occurrences, &scippb.Occurrence{
				Range:       []int32{int32(entry.Node.StartLine - 1), 0, int32(entry.Node.EndLine - 1), 0},
				Symbol:      symbol,
				SymbolRoles: int32(scippb.SymbolRole_Definition),
			})
		}

		index.Documents = append(index.Documents, doc)
	}

	return index
}

// WriteFile marshals the index to path in SCIP's protobuf wire format.
func WriteFile(path string, index *scippb.Index) error {
	data, err := proto.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal scip index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scip index: %w", err)
	}
	return nil
}

// symbolID builds a SCIP symbol string for one exported name. The scheme
// follows "scheme manager package version descriptor" with the file path
// as a namespace descriptor.
func symbolID(relPath, name string) string {
	return fmt.Sprintf("esmap npm . . %s/%s.", relPath, name)
}
