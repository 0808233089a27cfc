package jsdoc

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Block
		ok   bool
	}{
		{
			name: "single deprecated tag",
			text: "/** @deprecated please use 'bar' instead */",
			want: &Block{Tags: []Tag{{Title: "deprecated", Description: "please use 'bar' instead"}}},
			ok:   true,
		},
		{
			name: "description only",
			text: "/** Adds two numbers. */",
			want: &Block{Description: "Adds two numbers."},
			ok:   true,
		},
		{
			name: "description then tags",
			text: "/**\n * Adds two numbers.\n * @param a first\n * @returns the sum\n */",
			want: &Block{
				Description: "Adds two numbers.",
				Tags: []Tag{
					{Title: "param", Description: "a first"},
					{Title: "returns", Description: "the sum"},
				},
			},
			ok: true,
		},
		{
			name: "continuation lines fold into the tag",
			text: "/**\n * @deprecated use the new\n * client instead\n */",
			want: &Block{Tags: []Tag{{Title: "deprecated", Description: "use the new client instead"}}},
			ok:   true,
		},
		{
			name: "tag without description",
			text: "/** @deprecated */",
			want: &Block{Tags: []Tag{{Title: "deprecated"}}},
			ok:   true,
		},
		{
			name: "malformed bare @ is skipped",
			text: "/**\n * @\n * @deprecated gone\n */",
			want: &Block{Tags: []Tag{{Title: "deprecated", Description: "gone"}}},
			ok:   true,
		},
		{
			name: "plain block comment is not a doc block",
			text: "/* not a doc comment */",
			ok:   false,
		},
		{
			name: "line comment is not a doc block",
			text: "// @deprecated nope",
			ok:   false,
		},
		{
			name: "empty doc block",
			text: "/** */",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.text)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDeprecated(t *testing.T) {
	b := &Block{Tags: []Tag{
		{Title: "param", Description: "x"},
		{Title: "deprecated", Description: "use y"},
	}}
	text, ok := b.Deprecated()
	if !ok || text != "use y" {
		t.Errorf("Deprecated() = %q, %v, want %q, true", text, ok, "use y")
	}

	none := &Block{Tags: []Tag{{Title: "param", Description: "x"}}}
	if _, ok := none.Deprecated(); ok {
		t.Error("Deprecated() reported true for a block without the tag")
	}
}

func TestIsDocComment(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"/** doc */", true},
		{"/* plain */", false},
		{"// line", false},
		{"/**/", false},
	}
	for _, tt := range tests {
		if got := IsDocComment(tt.text); got != tt.want {
			t.Errorf("IsDocComment(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
