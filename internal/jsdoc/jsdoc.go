// Package jsdoc parses documentation comment blocks into ordered tag lists.
//
// Only the tag structure downstream rules need is extracted: each `@tag`
// line becomes a (title, description) pair in source order, with
// continuation lines folded into the preceding tag. Text that cannot be
// parsed as a tag is skipped rather than failing the block.
package jsdoc

import (
	"strings"
)

// Tag is one documentation tag, e.g. {@deprecated, "use bar instead"}.
type Tag struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Block is a parsed documentation comment.
type Block struct {
	Description string `json:"description,omitempty"` // free text before the first tag
	Tags        []Tag  `json:"tags,omitempty"`
}

// Deprecated returns the description of the first @deprecated tag, if any.
func (b *Block) Deprecated() (string, bool) {
	for _, t := range b.Tags {
		if t.Title == "deprecated" {
			return t.Description, true
		}
	}
	return "", false
}

// IsDocComment reports whether text is a `/** … */` documentation block, as
// opposed to a plain block or line comment.
func IsDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && strings.HasSuffix(text, "*/") && len(text) >= 5
}

// Parse parses a `/** … */` comment. It returns nil, false when text is not
// a documentation block or contains neither description nor tags.
func Parse(text string) (*Block, bool) {
	if !IsDocComment(text) {
		return nil, false
	}

	body := strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")

	var b Block
	var desc []string
	cur := -1 // index of the tag receiving continuation lines

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))

		if strings.HasPrefix(line, "@") {
			title, rest := splitTag(line)
			if title == "" {
				// Bare "@" or malformed tag: skip this line, keep the block.
				cur = -1
				continue
			}
			b.Tags = append(b.Tags, Tag{Title: title, Description: rest})
			cur = len(b.Tags) - 1
			continue
		}

		if line == "" {
			cur = -1
			continue
		}

		if cur >= 0 {
			if b.Tags[cur].Description != "" {
				b.Tags[cur].Description += " " + line
			} else {
				b.Tags[cur].Description = line
			}
		} else if len(b.Tags) == 0 {
			desc = append(desc, line)
		}
	}

	b.Description = strings.Join(desc, " ")
	if b.Description == "" && len(b.Tags) == 0 {
		return nil, false
	}
	return &b, true
}

// splitTag splits "@deprecated use bar instead" into its title and text.
func splitTag(line string) (title, rest string) {
	line = strings.TrimPrefix(line, "@")
	if line == "" {
		return "", ""
	}
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
