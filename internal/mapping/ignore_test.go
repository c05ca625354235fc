package mapping

import (
	"errors"
	"testing"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"*.tmp", "scratch.tmp", true},
		{"*.tmp", "dir/scratch.tmp", false},
		{"**/.obsidian", "/vault/.obsidian", true},
		{"**/.obsidian", "/vault/.obsidian.bak", false},
		{"drafts", "drafts", true},
		{"/\\.draft\\.md$/", "posts/idea.draft.md", true},
		{"/\\.draft\\.md$/", "posts/idea.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.input, func(t *testing.T) {
			m, err := compilePattern(tt.pattern)
			if err != nil {
				t.Fatalf("compilePattern(%q) error = %v", tt.pattern, err)
			}
			if got := m.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompilePattern_Invalid(t *testing.T) {
	for _, pattern := range []string{"", "   ", "/(/"} {
		if _, err := compilePattern(pattern); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("compilePattern(%q) error = %v, want ErrInvalidPattern", pattern, err)
		}
	}
}

func TestIgnoreRules_Ancestors(t *testing.T) {
	rules, err := compileRules([]string{"node_modules"})
	if err != nil {
		t.Fatalf("compileRules: %v", err)
	}

	if !rules.match("web/node_modules/pkg/index.md", "/vault/web/node_modules/pkg/index.md") {
		t.Error("a file below an ignored directory should match")
	}
	if rules.match("web/modules/index.md", "/vault/web/modules/index.md") {
		t.Error("unrelated path should not match")
	}

	var none ignoreRules
	if none.match("a.md", "/vault/a.md") {
		t.Error("empty rules never match")
	}
}
