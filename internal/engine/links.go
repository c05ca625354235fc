package engine

import (
	"path/filepath"
	"strings"

	"github.com/mschirtzinger/mdsync/internal/content"
	"github.com/mschirtzinger/mdsync/internal/mapping"
)

// ResolvedLink is one link target found in a Markdown document.
type ResolvedLink struct {
	// Raw is the target exactly as written in the document.
	Raw string
	// Path is the file Raw refers to. Empty when it could not be resolved.
	Path string
	// Target is where Path is mirrored to.
	Target string
	// URL replaces Raw in the mirrored document.
	URL string
	// Mapping owns Path.
	Mapping mapping.Mapping
}

// Found reports whether the link resolved to a file under a sync source.
func (l ResolvedLink) Found() bool {
	return l.Path != ""
}

// Links extracts and resolves the links of the Markdown document at path
// without copying anything.
func (e *Engine) Links(path string) ([]ResolvedLink, error) {
	path = filepath.Clean(path)
	mp, ok := e.mapper.Owner(path)
	if !ok {
		return nil, ErrUnowned
	}
	data, err := e.readDocument(path)
	if err != nil {
		return nil, err
	}
	return e.resolveLinks(path, mp, data), nil
}

// resolveLinks resolves every extracted target of the document at path.
// Unresolvable targets are returned with an empty Path.
func (e *Engine) resolveLinks(path string, mp mapping.Mapping, data []byte) []ResolvedLink {
	raws := e.extractor.Extract(data)
	links := make([]ResolvedLink, 0, len(raws))

	for _, raw := range raws {
		link := ResolvedLink{Raw: raw}

		target, suffix := splitSuffix(content.LinkPath(raw))
		if target == "" {
			// Same-page anchors and bare queries.
			continue
		}

		resolved, ok := e.resolver.Resolve(target, filepath.Dir(path))
		if !ok && filepath.Dir(path) != mp.Source {
			resolved, ok = e.resolver.Resolve(target, mp.Source)
		}
		if !ok {
			links = append(links, link)
			continue
		}

		owner, ok := e.mapper.Owner(resolved)
		if !ok || e.mapper.Ignored(resolved) {
			links = append(links, link)
			continue
		}

		dst, err := e.mapper.TargetPath(resolved, owner)
		if err != nil {
			links = append(links, link)
			continue
		}
		url, err := e.mapper.ServedURL(resolved, owner)
		if err != nil {
			links = append(links, link)
			continue
		}

		link.Path = resolved
		link.Target = dst
		link.URL = url + suffix
		link.Mapping = owner
		links = append(links, link)
	}
	return links
}

// splitSuffix separates a "#fragment" or "?query" from the file part of a
// link target.
func splitSuffix(raw string) (string, string) {
	if i := strings.IndexAny(raw, "#?"); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}
