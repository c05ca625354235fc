package mapping

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mschirtzinger/mdsync/internal/content"
)

// Mapper resolves ownership, ignore rules and target locations for a fixed
// set of mappings. It is safe for concurrent use; nothing changes after
// NewMapper returns.
type Mapper struct {
	site     Site
	mappings []Mapping
	// bySpecificity is mappings ordered longest source first.
	bySpecificity []int
	rules         []ignoreRules
}

// NewMapper compiles the ignore patterns of mappings.
func NewMapper(site Site, mappings []Mapping) (*Mapper, error) {
	m := &Mapper{
		site:     site,
		mappings: append([]Mapping(nil), mappings...),
		rules:    make([]ignoreRules, len(mappings)),
	}

	for i, mp := range m.mappings {
		rules, err := compileRules(mp.Ignored)
		if err != nil {
			return nil, fmt.Errorf("mapping %s: %w", mp.Source, err)
		}
		m.rules[i] = rules
		m.bySpecificity = append(m.bySpecificity, i)
	}

	sort.SliceStable(m.bySpecificity, func(a, b int) bool {
		return len(m.mappings[m.bySpecificity[a]].Source) > len(m.mappings[m.bySpecificity[b]].Source)
	})

	return m, nil
}

// Site returns the site layout the mapper targets.
func (m *Mapper) Site() Site {
	return m.site
}

// Mappings returns the mappings in configuration order.
func (m *Mapper) Mappings() []Mapping {
	return append([]Mapping(nil), m.mappings...)
}

// Sources returns every mapping source directory.
func (m *Mapper) Sources() []string {
	out := make([]string, len(m.mappings))
	for i, mp := range m.mappings {
		out[i] = mp.Source
	}
	return out
}

// Owner returns the mapping whose source contains path. When sources nest,
// the most specific (longest) source wins.
func (m *Mapper) Owner(path string) (Mapping, bool) {
	path = filepath.Clean(path)
	for _, i := range m.bySpecificity {
		if within(m.mappings[i].Source, path) {
			return m.mappings[i], true
		}
	}
	return Mapping{}, false
}

// Ignored reports whether path lies under some mapping source and matches
// one of that mapping's ignore patterns.
func (m *Mapper) Ignored(path string) bool {
	path = filepath.Clean(path)
	for i, mp := range m.mappings {
		if !within(mp.Source, path) {
			continue
		}
		rel, err := filepath.Rel(mp.Source, path)
		if err != nil || rel == "." {
			continue
		}
		if m.rules[i].match(filepath.ToSlash(rel), filepath.ToSlash(path)) {
			return true
		}
	}
	return false
}

// Relative returns src relative to the mapping source.
func (m *Mapper) Relative(src string, mp Mapping) (string, error) {
	rel, err := filepath.Rel(mp.Source, filepath.Clean(src))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s not under %s", ErrOutsideSource, src, mp.Source)
	}
	return strings.Trim(rel, string(filepath.Separator)), nil
}

// TargetRoot returns where a file of src's kind is mirrored to: the mapping
// target for Markdown and the site's public directory for everything else.
func (m *Mapper) TargetRoot(src string, mp Mapping) string {
	if content.IsMarkdown(src) {
		if mp.Target != "" {
			return mp.Target
		}
		return m.site.ContentDir()
	}
	return m.site.PublicDir
}

// TargetPath returns the mirrored location of src.
func (m *Mapper) TargetPath(src string, mp Mapping) (string, error) {
	rel, err := m.Relative(src, mp)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.TargetRoot(src, mp), rel), nil
}

// ServedURL returns the URL the site serves src at once mirrored. Assets
// keep their relative path; Markdown is addressed by its path below the
// content directory without the Markdown extension.
func (m *Mapper) ServedURL(src string, mp Mapping) (string, error) {
	rel, err := m.Relative(src, mp)
	if err != nil {
		return "", err
	}
	if !content.IsMarkdown(src) {
		return escapeURLPath(filepath.ToSlash(rel)), nil
	}

	target, err := m.TargetPath(src, mp)
	if err != nil {
		return "", err
	}

	base := m.site.ContentDir()
	if !within(base, target) {
		base = m.TargetRoot(src, mp)
	}
	servedRel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("served url for %s: %w", src, err)
	}

	return escapeURLPath(filepath.ToSlash(content.TrimMarkdownExt(servedRel))), nil
}

// escapeURLPath turns a slash-separated relative path into a site-absolute
// URL path with every segment percent-escaped.
func escapeURLPath(rel string) string {
	segments := strings.Split(strings.Trim(rel, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/" + strings.Join(segments, "/")
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	if dir == "" {
		return false
	}
	dir = filepath.Clean(dir)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
