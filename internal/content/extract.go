package content

import (
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Extractor finds the relative link targets referenced by a Markdown document.
//
// Implementations return each distinct target once, in order of first
// occurrence. Targets beginning with "http" are never returned.
type Extractor interface {
	Extract(source []byte) []string
}

// linkPattern pairs an expression with the submatch holding the target.
type linkPattern struct {
	re    *regexp.Regexp
	group int
}

var (
	// [text](target), ![alt](target "title") and [text](<target with spaces>);
	// the title is not captured, angle brackets are.
	inlineLinkPattern = regexp.MustCompile(`!?\[([^\]]*)\]\(\s*(<[^>\n]*>|[^)\s]+)(?:\s+[^)]*)?\)`)

	// ![[target]] embeds used by note-taking vaults.
	wikiEmbedPattern = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

	// Resource attributes on the handful of tags that load other files.
	htmlResourcePattern = regexp.MustCompile(`(?i)<(?:a|img|video|audio|source|iframe)\s+[^>]*?(?:href|src)\s*=\s*["']([^"']+)["'][^>]*>`)
)

var defaultPatterns = []linkPattern{
	{re: inlineLinkPattern, group: 2},
	{re: wikiEmbedPattern, group: 1},
	{re: htmlResourcePattern, group: 1},
}

// PatternExtractor extracts links with regular expressions. It is the
// default Extractor.
type PatternExtractor struct {
	patterns []linkPattern
}

// NewPatternExtractor returns an extractor for inline links and images,
// wiki embeds and HTML resource tags.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{patterns: defaultPatterns}
}

// Extract implements Extractor.
func (x *PatternExtractor) Extract(source []byte) []string {
	set := newLinkSet()
	text := string(source)

	for _, p := range x.patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			set.add(strings.TrimSpace(m[p.group]))
		}
	}

	return set.items
}

// LinkPath returns the file reference of a raw target: the angle brackets
// of "<my file.png>" are removed, anything else is returned unchanged.
func LinkPath(raw string) string {
	if len(raw) >= 2 && raw[0] == '<' && raw[len(raw)-1] == '>' {
		return strings.TrimSpace(raw[1 : len(raw)-1])
	}
	return raw
}

// IsRelative reports whether target is tracked for syncing. Anything that
// begins with "http" (which covers both http:// and https://) is external.
func IsRelative(target string) bool {
	return !strings.HasPrefix(target, "http")
}

// ExtractFile reads path from fsys and returns its relative link targets.
// A read failure yields a *FileReadError and no links.
func ExtractFile(fsys afero.Fs, path string, x Extractor) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	if x == nil {
		x = NewPatternExtractor()
	}
	return x.Extract(data), nil
}

// linkSet keeps insertion order while dropping duplicates, empty strings
// and external targets.
type linkSet struct {
	seen  map[string]struct{}
	items []string
}

func newLinkSet() *linkSet {
	return &linkSet{seen: make(map[string]struct{})}
}

func (s *linkSet) add(target string) {
	if target == "" || !IsRelative(target) {
		return
	}
	if _, ok := s.seen[target]; ok {
		return
	}
	s.seen[target] = struct{}{}
	s.items = append(s.items, target)
}
