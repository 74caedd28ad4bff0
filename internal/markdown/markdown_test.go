package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "paragraph and emphasis",
			source:   "Hello **world**",
			contains: []string{"<p>Hello <strong>world</strong></p>"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			source:   "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "raw html is dropped",
			source:   "<script>alert(1)</script>\n\ntext",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "javascript links are neutralized",
			source:   "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "heading ids survive sanitizing",
			source:   "## Getting Started",
			contains: []string{`id="getting-started"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output %q missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output %q must not contain %q", got, bad)
				}
			}
		})
	}
}

func TestHighlight(t *testing.T) {
	got, err := Highlight("const x: number = 1;", "typescript")
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(got, "<pre") || !strings.Contains(got, `class="chroma"`) {
		t.Errorf("expected chroma listing, got %q", got)
	}
	if !strings.Contains(got, "number") {
		t.Errorf("source text missing: %q", got)
	}
}

func TestHighlightKeepsBackticks(t *testing.T) {
	src := "echo ```nested```\n"
	got, err := Highlight(src, "")
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(got, "```nested```") {
		t.Errorf("fence leaked into output: %q", got)
	}
}

func TestLongestRun(t *testing.T) {
	if n := longestRun("a``b````c`", '`'); n != 4 {
		t.Errorf("got %d, want 4", n)
	}
	if n := longestRun("", '`'); n != 0 {
		t.Errorf("got %d, want 0", n)
	}
}
