package content

import (
	"errors"
	"io/fs"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const markdownWithLinks = `
# Hello World
![[./test.jpg]]
![Alt Text](./new-image.png)
![Image](./image.png)
[Link](./link.md)
[External Link](https://example.com)
`

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func TestPatternExtractor_LinkedFiles(t *testing.T) {
	got := NewPatternExtractor().Extract([]byte(markdownWithLinks))
	want := []string{"./image.png", "./link.md", "./new-image.png", "./test.jpg"}

	if diff := cmp.Diff(want, sorted(got)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternExtractor_Cases(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "title is stripped",
			doc:  `![Caption](./a.png "A caption")`,
			want: []string{"./a.png"},
		},
		{
			name: "angle bracket target keeps spaces",
			doc:  `![x](<my image.png>) ![y](<./b c.png> "Title") ![z](my%20image.png)`,
			want: []string{"<my image.png>", "<./b c.png>", "my%20image.png"},
		},
		{
			name: "duplicates collapse",
			doc:  "[one](./a.md)\n[two](./a.md)\n![three](./a.md)",
			want: []string{"./a.md"},
		},
		{
			name: "html tags with either quote style",
			doc:  `<img src="./pic.png" alt="x"><A HREF='./doc.md'>doc</A><video controls src="clip.mp4"></video>`,
			want: []string{"./pic.png", "./doc.md", "clip.mp4"},
		},
		{
			name: "source and iframe",
			doc:  `<audio><source src="./a.mp3"></audio><iframe src="./embed.html"></iframe>`,
			want: []string{"./a.mp3", "./embed.html"},
		},
		{
			name: "external links ignored",
			doc:  `[a](http://x.test) <img src="https://cdn.test/a.png"> ![[./local.png]]`,
			want: []string{"./local.png"},
		},
		{
			name: "all classes merged",
			doc:  "![[a.png]]\n[b](b.md)\n<img src=\"c.gif\">",
			want: []string{"b.md", "a.png", "c.gif"},
		},
		{
			name: "empty targets dropped",
			doc:  `<a href="">x</a>`,
			want: nil,
		},
		{
			name: "tags without resource attributes",
			doc:  `<div src="./nope.png"></div>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPatternExtractor().Extract([]byte(tt.doc))
			if diff := cmp.Diff(sorted(tt.want), sorted(got)); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatternExtractor_FirstOccurrenceOrder(t *testing.T) {
	doc := "[b](./b.md) [a](./a.md) [b again](./b.md)"
	got := NewPatternExtractor().Extract([]byte(doc))
	want := []string{"./b.md", "./a.md"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() order mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenExtractor_SkipsCode(t *testing.T) {
	doc := "![real](./real.png)\n\n" +
		"```markdown\n![example](./fenced.png)\n```\n\n" +
		"Inline `![span](./span.png)` sample.\n\n" +
		"    ![indented](./indented.png)\n\n" +
		"![[./embed.jpg]]\n"

	got := NewTokenExtractor().Extract([]byte(doc))
	want := []string{"./embed.jpg", "./real.png"}

	if diff := cmp.Diff(want, sorted(got)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenExtractor_MatchesPatternsOutsideCode(t *testing.T) {
	a := NewPatternExtractor().Extract([]byte(markdownWithLinks))
	b := NewTokenExtractor().Extract([]byte(markdownWithLinks))

	if diff := cmp.Diff(sorted(a), sorted(b)); diff != "" {
		t.Errorf("extractors disagree (-pattern +token):\n%s", diff)
	}
}

func TestNewExtractor(t *testing.T) {
	if _, ok := NewExtractor("goldmark").(*TokenExtractor); !ok {
		t.Error("NewExtractor(goldmark) should return a TokenExtractor")
	}
	if _, ok := NewExtractor("").(*PatternExtractor); !ok {
		t.Error("NewExtractor(\"\") should return a PatternExtractor")
	}
}

func TestExtractFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/vault/post.md", []byte(markdownWithLinks), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	links, err := ExtractFile(fsys, "/vault/post.md", nil)
	if err != nil {
		t.Fatalf("ExtractFile() failed: %v", err)
	}
	if len(links) != 4 {
		t.Errorf("ExtractFile() returned %d links, want 4", len(links))
	}
}

func TestExtractFile_ReadError(t *testing.T) {
	links, err := ExtractFile(afero.NewMemMapFs(), "/missing.md", nil)
	if err == nil {
		t.Fatal("ExtractFile() should fail for a missing file")
	}
	if links != nil {
		t.Errorf("ExtractFile() returned partial results: %v", links)
	}

	var readErr *FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *FileReadError, got %T", err)
	}
	if readErr.Path != "/missing.md" {
		t.Errorf("Path = %q, want /missing.md", readErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}
}

func TestLinkPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"<my image.png>", "my image.png"},
		{"< ./a b.md >", "./a b.md"},
		{"./plain.md", "./plain.md"},
		{"<unclosed.png", "<unclosed.png"},
		{"<>", ""},
	}

	for _, tt := range tests {
		if got := LinkPath(tt.raw); got != tt.want {
			t.Errorf("LinkPath(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
