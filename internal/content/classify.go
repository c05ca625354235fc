// Package content classifies source files and handles the link-level
// operations on Markdown documents: finding the relative resources a
// document references and rewriting those references to served URLs.
package content

import (
	"path/filepath"
	"strings"
)

// Kind identifies how a file is routed when mirrored.
type Kind int

const (
	// KindOther is any file that is neither Markdown nor an image.
	KindOther Kind = iota
	// KindMarkdown is a Markdown document, copied into the content root.
	KindMarkdown
	// KindImage is an image asset, copied into the public root.
	KindImage
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// MarkdownExtensions is the closed set of suffixes treated as Markdown.
var MarkdownExtensions = []string{
	".md",
	".mdx",
	".mkd",
	".mdwn",
	".mdown",
	".mdtxt",
	".mdtext",
	".markdown",
	".text",
}

// ImageExtensions is the closed set of suffixes treated as images.
var ImageExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
	".heic",
	".avif",
}

// IsMarkdown reports whether path ends in one of MarkdownExtensions.
// Matching is case-insensitive.
func IsMarkdown(path string) bool {
	return hasSuffix(path, MarkdownExtensions)
}

// IsImage reports whether path ends in one of ImageExtensions.
func IsImage(path string) bool {
	return hasSuffix(path, ImageExtensions)
}

// Classify returns the Kind for path.
func Classify(path string) Kind {
	switch {
	case IsMarkdown(path):
		return KindMarkdown
	case IsImage(path):
		return KindImage
	default:
		return KindOther
	}
}

// TrimMarkdownExt removes a trailing Markdown extension from path, if any.
func TrimMarkdownExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range MarkdownExtensions {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

func hasSuffix(path string, exts []string) bool {
	lower := strings.ToLower(filepath.Base(path))
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
