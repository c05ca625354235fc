package content

import (
	"strings"
	"testing"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		content string
		link    Link
		want    string
	}{
		{
			name:    "markdown image",
			content: "![Image](./image.png)",
			link:    Link{Raw: "./image.png", URL: "/image.png"},
			want:    "![Image](/image.png)",
		},
		{
			name:    "title dropped with target",
			content: `![Image](./image.png "Caption")`,
			link:    Link{Raw: "./image.png", URL: "/image.png"},
			want:    "![Image](/image.png)",
		},
		{
			name:    "every occurrence",
			content: "[a](./doc.md) and [b](./doc.md)",
			link:    Link{Raw: "./doc.md", URL: "/doc"},
			want:    "[a](/doc) and [b](/doc)",
		},
		{
			name:    "case-insensitive",
			content: "![x](./IMG.png)",
			link:    Link{Raw: "./img.png", URL: "/img.png"},
			want:    "![x](/img.png)",
		},
		{
			name:    "html attribute",
			content: `<img src="./pic.png" alt="pic">`,
			link:    Link{Raw: "./pic.png", URL: "/pic.png"},
			want:    `<img src="/pic.png" alt="pic">`,
		},
		{
			name:    "wiki embed",
			content: "![[./test.jpg]]",
			link:    Link{Raw: "./test.jpg", URL: "/test.jpg"},
			want:    "![[/test.jpg]]",
		},
		{
			name:    "parent reference left alone",
			content: "![a](./a.png) ![b](../a.png)",
			link:    Link{Raw: "./a.png", URL: "/a.png"},
			want:    "![a](/a.png) ![b](../a.png)",
		},
		{
			name:    "regex metacharacters are literal",
			content: "[x](./a+b(1).md)",
			link:    Link{Raw: "./a+b(1).md", URL: "/a+b(1)"},
			want:    "[x](/a+b(1))",
		},
		{
			name:    "dollar in url",
			content: "[x](./cost.md)",
			link:    Link{Raw: "./cost.md", URL: "/$cost"},
			want:    "[x](/$cost)",
		},
		{
			name:    "longer target with the same prefix left alone",
			content: "[A](a.md) [B](a.mdx) ![c](img.png.bak)",
			link:    Link{Raw: "a.md", URL: "/a"},
			want:    "[A](/a) [B](a.mdx) ![c](img.png.bak)",
		},
		{
			name:    "fragment of the same file left alone",
			content: "[a](doc.md) [b](doc.md#part)",
			link:    Link{Raw: "doc.md", URL: "/doc"},
			want:    "[a](/doc) [b](doc.md#part)",
		},
		{
			name:    "angle bracket target",
			content: "![x](<my image.png>)",
			link:    Link{Raw: "<my image.png>", URL: "/my%20image.png"},
			want:    "![x](/my%20image.png)",
		},
		{
			name:    "empty raw is a no-op",
			content: "unchanged",
			link:    Link{Raw: "", URL: "/x"},
			want:    "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(tt.content, tt.link); got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite_RawTargetGone(t *testing.T) {
	doc := markdownWithLinks
	links := []Link{
		{Raw: "./test.jpg", URL: "/test.jpg"},
		{Raw: "./new-image.png", URL: "/new-image.png"},
		{Raw: "./image.png", URL: "/image.png"},
		{Raw: "./link.md", URL: "/link"},
	}

	got := RewriteAll(doc, links)
	for _, link := range links {
		if strings.Contains(got, "("+link.Raw) || strings.Contains(got, "[["+link.Raw) {
			t.Errorf("raw target %q still present:\n%s", link.Raw, got)
		}
		if !strings.Contains(got, link.URL) {
			t.Errorf("url %q missing:\n%s", link.URL, got)
		}
	}
	if !strings.Contains(got, "https://example.com") {
		t.Error("external link should be untouched")
	}
}

func TestRewriteAll_Sequential(t *testing.T) {
	// The second rewrite sees the output of the first.
	got := RewriteAll("[a](./a.md)", []Link{
		{Raw: "./a.md", URL: "/b.md"},
		{Raw: "/b.md", URL: "/c"},
	})
	if got != "[a](/c)" {
		t.Errorf("RewriteAll() = %q, want [a](/c)", got)
	}
}

func TestRewriteAll_PrefixTargets(t *testing.T) {
	doc := "[A](a.md) [B](a.mdx) [C](a.mdown) ![d](img.png) ![e](img.png.bak)"

	tests := []struct {
		name  string
		links []Link
	}{
		{"shorter first", []Link{
			{Raw: "a.md", URL: "/a"},
			{Raw: "a.mdx", URL: "/a-x"},
			{Raw: "a.mdown", URL: "/a-down"},
			{Raw: "img.png", URL: "/img.png"},
			{Raw: "img.png.bak", URL: "/img.png.bak"},
		}},
		{"longer first", []Link{
			{Raw: "img.png.bak", URL: "/img.png.bak"},
			{Raw: "a.mdown", URL: "/a-down"},
			{Raw: "a.mdx", URL: "/a-x"},
			{Raw: "img.png", URL: "/img.png"},
			{Raw: "a.md", URL: "/a"},
		}},
	}

	want := "[A](/a) [B](/a-x) [C](/a-down) ![d](/img.png) ![e](/img.png.bak)"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteAll(doc, tt.links); got != want {
				t.Errorf("RewriteAll() = %q, want %q", got, want)
			}
		})
	}
}
