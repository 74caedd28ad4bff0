package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation collapses", input: "Hello, World!", want: "hello-world"},
		{name: "surrounding space", input: "  padded  ", want: "padded"},
		{name: "diacritics folded", input: "Résumé – Jane Doe (2026)", want: "resume-jane-doe-2026"},
		{name: "underscores separate", input: "my_cv_final", want: "my-cv-final"},
		{name: "existing hyphens", input: "--already--slugged--", want: "already-slugged"},
		{name: "non latin dropped", input: "简历 cv", want: "cv"},
		{name: "only symbols", input: "!!!", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateTruncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := Generate(long)
	if len(got) > MaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") || strings.HasSuffix(got, "-wor") {
		t.Errorf("slug should end on a whole word, got %q", got)
	}

	solid := strings.Repeat("a", 100)
	if got := Generate(solid); got != strings.Repeat("a", MaxLen) {
		t.Errorf("unbroken input should be cut at MaxLen, got %d chars", len(got))
	}
}
