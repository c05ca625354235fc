package content

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TokenExtractor parses the document with goldmark and masks code blocks and
// code spans before running the link patterns, so example links inside
// code are not synced.
type TokenExtractor struct {
	md       goldmark.Markdown
	patterns *PatternExtractor
}

// NewTokenExtractor constructs a TokenExtractor with goldmark's CommonMark
// parser.
func NewTokenExtractor() *TokenExtractor {
	return &TokenExtractor{
		md:       goldmark.New(),
		patterns: NewPatternExtractor(),
	}
}

// Extract implements Extractor.
func (x *TokenExtractor) Extract(source []byte) []string {
	masked := append([]byte(nil), source...)
	doc := x.md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				blank(masked, lines.At(i))
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					blank(masked, t.Segment)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return x.patterns.Extract(masked)
}

func blank(buf []byte, seg text.Segment) {
	for i := seg.Start; i < seg.Stop && i < len(buf); i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

// NewExtractor returns the extractor registered under name ("pattern" or
// "goldmark"). Unknown names fall back to the pattern extractor.
func NewExtractor(name string) Extractor {
	switch name {
	case "goldmark", "token":
		return NewTokenExtractor()
	default:
		return NewPatternExtractor()
	}
}
