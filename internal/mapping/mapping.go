// Package mapping builds and queries the configured source→target sync
// mappings.
//
// A Mapping pairs a watched source directory with the directory Markdown is
// mirrored into. Everything that is not Markdown goes to the site's public
// directory instead. The registry (Build) normalises user input into
// mappings; the Mapper answers ownership, ignore and target path questions
// for a fixed set of mappings.
package mapping

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Site describes the directories of the site generator content is synced
// into.
type Site struct {
	// RootDir is the project root.
	RootDir string `json:"root" yaml:"root" toml:"root"`
	// SrcDir holds the generator's sources; content lives in SrcDir/content.
	SrcDir string `json:"src" yaml:"src" toml:"src"`
	// PublicDir is served verbatim at the site root.
	PublicDir string `json:"public" yaml:"public" toml:"public"`
}

// ContentDir is the default target for Markdown files.
func (s Site) ContentDir() string {
	return filepath.Join(s.SrcDir, "content")
}

// SiteFromRoot returns the conventional layout below root: root/src and
// root/public.
func SiteFromRoot(root string) Site {
	return Site{
		RootDir:   root,
		SrcDir:    filepath.Join(root, "src"),
		PublicDir: filepath.Join(root, "public"),
	}
}

// Mapping is one validated synchronisation unit.
type Mapping struct {
	// Source is the absolute directory being watched.
	Source string `json:"source" yaml:"source" toml:"source"`
	// Target is the absolute directory Markdown files are copied into.
	Target string `json:"target" yaml:"target" toml:"target"`
	// Ignored lists glob patterns (or /regex/) excluded from syncing.
	Ignored []string `json:"ignored" yaml:"ignored" toml:"ignored"`
}

// Validate checks the fields that can be checked without touching disk.
func (m Mapping) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Source, validation.Required.Error(SourcePathEmpty)),
		validation.Field(&m.Ignored, validation.Each(validation.By(func(value any) error {
			pattern, _ := value.(string)
			_, err := compilePattern(pattern)
			return err
		}))),
	)
}

// String renders the mapping as the shorthand notation.
func (m Mapping) String() string {
	return fmt.Sprintf("%s%c%s", m.Source, filepath.ListSeparator, m.Target)
}
