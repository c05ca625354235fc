// Package config loads mdsync settings from a config file, MDSYNC_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mschirtzinger/mdsync/internal/logging"
	"github.com/mschirtzinger/mdsync/internal/mapping"
)

// EnvPrefix prefixes every environment override, e.g. MDSYNC_SITE_ROOT.
const EnvPrefix = "MDSYNC"

// FileName is the config file searched for, without extension.
const FileName = "mdsync"

// Config is the effective configuration.
type Config struct {
	Site             SiteConfig       `mapstructure:"site"`
	Sources          []any            `mapstructure:"sources"`
	Debounce         time.Duration    `mapstructure:"debounce"`
	Extractor        string           `mapstructure:"extractor"`
	InitialSync      bool             `mapstructure:"initial_sync"`
	CascadeDirDelete bool             `mapstructure:"cascade_dir_delete"`
	LiveReload       LiveReloadConfig `mapstructure:"livereload"`
	Log              LogConfig        `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// SiteConfig locates the site generator project.
type SiteConfig struct {
	Root   string `mapstructure:"root"`
	Src    string `mapstructure:"src"`
	Public string `mapstructure:"public"`
}

// LiveReloadConfig controls the live reload server. Port 0 disables it.
type LiveReloadConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// SetDefaults registers every key with its default value, which also makes
// each key overridable from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.root", ".")
	v.SetDefault("site.src", "")
	v.SetDefault("site.public", "")
	v.SetDefault("sources", []any{})
	v.SetDefault("debounce", 100*time.Millisecond)
	v.SetDefault("extractor", "pattern")
	v.SetDefault("initial_sync", true)
	v.SetDefault("cascade_dir_delete", false)
	v.SetDefault("livereload.port", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path. When path is empty the file is
// searched for with Find starting at dir, and a missing file only means
// defaults and environment apply. A relative site root is taken from the
// directory of the file that was read.
func Load(v *viper.Viper, path, dir string) (*Config, error) {
	if path == "" {
		found, err := Find(dir)
		if err != nil && !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to search for config: %w", err)
		}
		path = found
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if cfg.File != "" && !filepath.IsAbs(cfg.Site.Root) {
		cfg.Site.Root = filepath.Join(filepath.Dir(cfg.File), cfg.Site.Root)
	}
	return &cfg, nil
}

// Inputs converts the configured sources into registry inputs. Invalid
// entries are reported together; valid ones are still returned.
func (c *Config) Inputs() ([]mapping.Input, error) {
	var (
		inputs []mapping.Input
		errs   []error
	)
	for i, raw := range c.Sources {
		in, err := mapping.ParseInput(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, err))
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, errors.Join(errs...)
}

// SiteLayout resolves the site directories. Src and public default to
// root/src and root/public; relative paths are taken from root.
func (c *Config) SiteLayout() (mapping.Site, error) {
	root := c.Site.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return mapping.Site{}, fmt.Errorf("failed to resolve site root: %w", err)
	}

	site := mapping.SiteFromRoot(root)
	if c.Site.Src != "" {
		site.SrcDir = underRoot(root, c.Site.Src)
	}
	if c.Site.Public != "" {
		site.PublicDir = underRoot(root, c.Site.Public)
	}
	return site, nil
}

func underRoot(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// LoggingOptions maps the log settings onto logger options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      logging.ParseLevel(c.Log.Level),
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
