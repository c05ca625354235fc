package fsops

import (
	"net/url"
	"path/filepath"

	"github.com/mschirtzinger/mdsync/internal/content"
)

// ImageDirs are the asset folders searched, in order, when an image link
// does not resolve where the document says it is.
var ImageDirs = []string{"images", "Images"}

// Resolver turns link targets into paths of files that exist on disk.
type Resolver struct {
	fs        *FS
	imageDirs []string
}

// NewResolver returns a Resolver probing fsys with the default ImageDirs.
func NewResolver(fsys *FS) *Resolver {
	return &Resolver{
		fs:        fsys,
		imageDirs: append([]string(nil), ImageDirs...),
	}
}

// Resolve returns the absolute path of the regular file raw refers to,
// relative to baseDir. Images that are not found directly are looked up
// under each of the image directories inside baseDir. The second result is
// false when nothing was found; directories never resolve.
func (r *Resolver) Resolve(raw, baseDir string) (string, bool) {
	if raw == "" {
		return "", false
	}

	if path, ok := r.lookup(raw, baseDir); ok {
		return path, true
	}

	if !content.IsImage(raw) || filepath.IsAbs(raw) {
		return "", false
	}

	for _, dir := range r.imageDirs {
		if path, ok := r.lookup(raw, filepath.Join(baseDir, dir)); ok {
			return path, true
		}
	}
	return "", false
}

// lookup checks raw as written and, when it differs, percent-decoded.
func (r *Resolver) lookup(raw, baseDir string) (string, bool) {
	candidates := []string{raw}
	if decoded, err := url.PathUnescape(raw); err == nil && decoded != raw {
		candidates = append(candidates, decoded)
	}

	for _, candidate := range candidates {
		path := filepath.FromSlash(candidate)
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		path = filepath.Clean(path)

		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if r.fs.IsFile(path) {
			return path, true
		}
	}
	return "", false
}
