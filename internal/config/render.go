package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mschirtzinger/mdsync/internal/mapping"
)

// File is the on-disk shape of a config file. Sources are written in their
// structured form so both encoders see a uniform list.
type File struct {
	Site             FileSite             `yaml:"site" toml:"site"`
	Sources          []mapping.Structured `yaml:"sources" toml:"sources"`
	Debounce         string               `yaml:"debounce" toml:"debounce"`
	Extractor        string               `yaml:"extractor" toml:"extractor"`
	InitialSync      bool                 `yaml:"initial_sync" toml:"initial_sync"`
	CascadeDirDelete bool                 `yaml:"cascade_dir_delete" toml:"cascade_dir_delete"`
	LiveReload       FileLiveReload       `yaml:"livereload" toml:"livereload"`
	Log              FileLog              `yaml:"log" toml:"log"`
}

type FileSite struct {
	Root   string `yaml:"root" toml:"root"`
	Src    string `yaml:"src,omitempty" toml:"src,omitempty"`
	Public string `yaml:"public,omitempty" toml:"public,omitempty"`
}

type FileLiveReload struct {
	Port int `yaml:"port" toml:"port"`
}

type FileLog struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file,omitempty" toml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// ToFile converts the effective configuration to its file form. Shorthand
// sources are split into source and target.
func (c *Config) ToFile() (File, error) {
	inputs, err := c.Inputs()
	if err != nil {
		return File{}, err
	}

	f := File{
		Site:             FileSite{Root: c.Site.Root, Src: c.Site.Src, Public: c.Site.Public},
		Sources:          make([]mapping.Structured, 0, len(inputs)),
		Debounce:         c.Debounce.String(),
		Extractor:        c.Extractor,
		InitialSync:      c.InitialSync,
		CascadeDirDelete: c.CascadeDirDelete,
		LiveReload:       FileLiveReload{Port: c.LiveReload.Port},
		Log: FileLog{
			Level:      c.Log.Level,
			File:       c.Log.File,
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
		},
	}
	for _, in := range inputs {
		f.Sources = append(f.Sources, structured(in))
	}
	return f, nil
}

func structured(in mapping.Input) mapping.Structured {
	switch v := in.(type) {
	case mapping.Structured:
		return v
	case mapping.Shorthand:
		source, target, _ := mapping.SplitShorthand(string(v))
		return mapping.Structured{Source: source, Target: target}
	default:
		return mapping.Structured{}
	}
}

// Formats lists the formats Encode accepts.
var Formats = []string{"yaml", "toml"}

// Encode writes f to w as yaml or toml.
func Encode(w io.Writer, f File, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Save writes f to path, choosing the format from its extension. An
// existing file is never overwritten.
func Save(path string, f File) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return err
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// Starter returns the file form of a fresh configuration with one source.
func Starter(root, source, target string) File {
	f := File{
		Site:        FileSite{Root: root},
		Debounce:    "100ms",
		Extractor:   "pattern",
		InitialSync: true,
		Log:         FileLog{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
	if source != "" {
		f.Sources = []mapping.Structured{{Source: source, Target: target, Ignored: []string{"**/.obsidian", "**/.trash"}}}
	}
	return f
}
