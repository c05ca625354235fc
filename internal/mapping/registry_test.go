package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/logging"
)

var testSite = Site{
	RootDir:   "/home/sites/astro/my-awesome-site",
	SrcDir:    "/home/sites/astro/my-awesome-site/src",
	PublicDir: "/home/sites/astro/my-awesome-site/public",
}

// setupSourceDirs creates directories under a temp root and returns their
// absolute paths.
func setupSourceDirs(t *testing.T, names ...string) []string {
	t.Helper()

	root := t.TempDir()
	dirs := make([]string, len(names))
	for i, name := range names {
		dirs[i] = filepath.Join(root, name)
		if err := os.MkdirAll(dirs[i], 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	return dirs
}

func TestBuild_Shorthand(t *testing.T) {
	t.Setenv(EnvSources, "")
	dirs := setupSourceDirs(t, "exists")
	target := filepath.Join(filepath.Dir(dirs[0]), "target")

	got := Build([]Input{Shorthand(dirs[0] + string(filepath.ListSeparator) + target)}, testSite, fsops.OS(), logging.NewMemory())

	want := []Mapping{{Source: dirs[0], Target: target, Ignored: []string{}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultTarget(t *testing.T) {
	t.Setenv(EnvSources, "")
	dirs := setupSourceDirs(t, "vault")

	got := Build([]Input{Shorthand(dirs[0])}, testSite, fsops.OS(), nil)
	if len(got) != 1 {
		t.Fatalf("Build() returned %d mappings, want 1", len(got))
	}
	if got[0].Target != testSite.SrcDir+"/content" {
		t.Errorf("Target = %q, want %s/content", got[0].Target, testSite.SrcDir)
	}
}

func TestBuild_Structured(t *testing.T) {
	t.Setenv(EnvSources, "")
	dirs := setupSourceDirs(t, "vault", "target")

	got := Build([]Input{
		Structured{Source: dirs[0], Target: dirs[1], Ignored: []string{"**/.obsidian", " ", "*.tmp"}},
	}, testSite, fsops.OS(), nil)

	want := []Mapping{{Source: dirs[0], Target: dirs[1], Ignored: []string{"**/.obsidian", "*.tmp"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EmptySource(t *testing.T) {
	t.Setenv(EnvSources, "")

	tests := []struct {
		name  string
		input Input
	}{
		{"empty shorthand", Shorthand("")},
		{"shorthand without source", Shorthand(string(filepath.ListSeparator) + "/home/test/some-target")},
		{"structured", Structured{Source: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewMemory()
			got := Build([]Input{tt.input}, testSite, fsops.OS(), logger)

			if len(got) != 0 {
				t.Errorf("Build() = %v, want no mappings", got)
			}
			if !logger.Contains(logging.LevelError, SourcePathEmpty) {
				t.Errorf("expected %q to be logged, got %v", SourcePathEmpty, logger.Entries())
			}
		})
	}
}

func TestBuild_MissingDirectory(t *testing.T) {
	t.Setenv(EnvSources, "")
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	logger := logging.NewMemory()

	got := Build([]Input{Shorthand(missing)}, testSite, fsops.OS(), logger)

	if len(got) != 0 {
		t.Errorf("Build() = %v, want no mappings", got)
	}
	if !logger.Contains(logging.LevelError, DirectoryNotFound) || !logger.Contains(logging.LevelError, missing) {
		t.Errorf("expected not-found error with path, got %v", logger.Entries())
	}
}

func TestBuild_FileIsNotADirectory(t *testing.T) {
	t.Setenv(EnvSources, "")
	file := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := Build([]Input{Shorthand(file)}, testSite, fsops.OS(), nil); len(got) != 0 {
		t.Errorf("a file source should be rejected, got %v", got)
	}
}

func TestBuild_InvalidSkippedOthersKept(t *testing.T) {
	t.Setenv(EnvSources, "")
	dirs := setupSourceDirs(t, "a", "b")
	logger := logging.NewMemory()

	got := Build([]Input{
		Shorthand(""),
		Shorthand(dirs[0]),
		Structured{Source: dirs[1], Ignored: []string{"/(unclosed/"}},
		Shorthand(dirs[1]),
	}, testSite, fsops.OS(), logger)

	if len(got) != 2 || got[0].Source != dirs[0] || got[1].Source != dirs[1] {
		t.Errorf("Build() = %v, want mappings for a and b", got)
	}
	if !logger.Contains(logging.LevelError, "Invalid sync configuration") {
		t.Errorf("bad ignore pattern should be logged, got %v", logger.Entries())
	}
}

func TestBuild_EnvFallback(t *testing.T) {
	dirs := setupSourceDirs(t, "one", "two", "target")
	sep := string(filepath.ListSeparator)
	t.Setenv(EnvSources, dirs[0]+sep+dirs[2]+", "+dirs[1])

	got := Build(nil, testSite, fsops.OS(), nil)

	want := []Mapping{
		{Source: dirs[0], Target: dirs[2], Ignored: []string{}},
		{Source: dirs[1], Target: testSite.ContentDir(), Ignored: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EnvMalformed(t *testing.T) {
	t.Setenv(EnvSources, string(filepath.ListSeparator)+"/home/test/some-target")
	logger := logging.NewMemory()

	if got := Build(nil, testSite, fsops.OS(), logger); len(got) != 0 {
		t.Errorf("Build() = %v, want none", got)
	}
	if !logger.Contains(logging.LevelError, SourcePathEmpty) {
		t.Errorf("expected %q, got %v", SourcePathEmpty, logger.Entries())
	}
}

func TestBuild_NoInputsNoEnv(t *testing.T) {
	t.Setenv(EnvSources, "")
	if got := Build(nil, testSite, fsops.OS(), nil); len(got) != 0 {
		t.Errorf("Build() = %v, want none", got)
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    Input
		wantErr bool
	}{
		{"string", "/a:/b", Shorthand("/a:/b"), false},
		{
			name:  "map",
			value: map[string]any{"source": "/a", "target": "/b", "ignored": []any{"*.tmp"}},
			want:  Structured{Source: "/a", Target: "/b", Ignored: []string{"*.tmp"}},
		},
		{
			name:  "yaml style map",
			value: map[any]any{"Source": "/a"},
			want:  Structured{Source: "/a"},
		},
		{"bad ignored", map[string]any{"source": "/a", "ignored": "*.tmp"}, nil, true},
		{"number", 42, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInput() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsConfigurationError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrNoMappings, true},
		{fmt.Errorf("setup: %w", ErrNoMappings), true},
		{fmt.Errorf("sources[0]: %w", ErrUnsupportedInput), true},
		{ErrInvalidPattern, true},
		{ErrOutsideSource, false},
		{errors.New("disk full"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsConfigurationError(tt.err); got != tt.want {
			t.Errorf("IsConfigurationError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
