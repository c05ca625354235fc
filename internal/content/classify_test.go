package content

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/vault/post.md", KindMarkdown},
		{"/vault/post.MD", KindMarkdown},
		{"/vault/post.mdx", KindMarkdown},
		{"notes.markdown", KindMarkdown},
		{"notes.mdtext", KindMarkdown},
		{"readme.text", KindMarkdown},
		{"pic.png", KindImage},
		{"pic.JPEG", KindImage},
		{"vector.svg", KindImage},
		{"photo.heic", KindImage},
		{"clip.mp4", KindOther},
		{"archive.md.zip", KindOther},
		{"/vault/md", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestTrimMarkdownExt(t *testing.T) {
	tests := map[string]string{
		"/sub/doc.md":       "/sub/doc",
		"/sub/doc.markdown": "/sub/doc",
		"/sub/doc.mdtext":   "/sub/doc",
		"/sub/pic.png":      "/sub/pic.png",
	}

	for in, want := range tests {
		if got := TrimMarkdownExt(in); got != want {
			t.Errorf("TrimMarkdownExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsRelative(t *testing.T) {
	if IsRelative("https://example.com") || IsRelative("http://example.com") {
		t.Error("http(s) targets should not be relative")
	}
	if !IsRelative("./a.png") || !IsRelative("a.png") {
		t.Error("plain paths should be relative")
	}
}
