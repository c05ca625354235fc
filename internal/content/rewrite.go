package content

import (
	"regexp"
	"strings"
)

// Link is a relative reference found in a document together with the URL
// the site serves the referenced file at.
type Link struct {
	Raw string
	URL string
}

// titleSuffix matches an optional quoted title after a link target,
// e.g. the `"Caption"` in `![alt](./a.png "Caption")`.
const titleSuffix = `(?:[ \t]+"[^"\n]*"|[ \t]+'[^'\n]*')?`

// pathBoundary keeps "./a.png" from matching inside "../a.png".
const pathBoundary = `(^|[^\w./\-])`

// Rewrite replaces every occurrence of link.Raw in content (case-insensitive,
// including a trailing title) with link.URL. An occurrence followed by more
// path characters is part of a longer target ("a.md" in "a.mdx") and is
// left alone.
func Rewrite(content string, link Link) string {
	if link.Raw == "" {
		return content
	}

	re := regexp.MustCompile(`(?i)` + pathBoundary + regexp.QuoteMeta(link.Raw) + titleSuffix)

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
		start, end := loc[0], loc[1]
		if end < len(content) && continuesPath(content[end]) {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(content[loc[2]:loc[3]])
		b.WriteString(link.URL)
		last = end
	}
	b.WriteString(content[last:])
	return b.String()
}

// continuesPath reports whether c can extend a link target.
func continuesPath(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("._-/#?%~", c) >= 0
}

// RewriteAll applies links in order, each to the result of the previous one.
func RewriteAll(content string, links []Link) string {
	for _, link := range links {
		content = Rewrite(content, link)
	}
	return content
}
