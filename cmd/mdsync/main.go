// Command mdsync mirrors Markdown notes and the files they link to into a
// static site project while the site's dev server runs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/mdsync/internal/config"
	"github.com/mschirtzinger/mdsync/internal/content"
	"github.com/mschirtzinger/mdsync/internal/engine"
	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/logging"
	"github.com/mschirtzinger/mdsync/internal/mapping"
	"github.com/mschirtzinger/mdsync/internal/ui"
)

var (
	configFile string
	noColor    bool

	v      = config.NewViper()
	cfg    *config.Config
	logger *logging.StdLogger
)

var rootCmd = &cobra.Command{
	Use:   "mdsync",
	Short: "Mirror Markdown notes into a static site",
	Long: `mdsync copies Markdown documents from one or more source directories
(for example an Obsidian vault) into a static site project, together with
every image and file they link to. Links are rewritten to the URLs the site
serves, so notes render correctly without being moved.

Configuration is read from the nearest mdsync.yaml or mdsync.toml in the
current directory or a parent, MDSYNC_* environment variables and flags.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColor(false)
		}
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "init" {
			return
		}

		var err error
		cfg, err = config.Load(v, configFile, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		opts := cfg.LoggingOptions()
		opts.NoColor = noColor
		logger = logging.New(opts)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

// mustEngine is newEngine for commands: errors end the process.
func mustEngine() *engine.Engine {
	eng, err := newEngine()
	if err != nil {
		fail(err)
	}
	return eng
}

// fail reports err and exits. Configuration errors get a hint.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if mapping.IsConfigurationError(err) {
		fmt.Fprintf(os.Stderr, "Run 'mdsync init' to create a config file, or set %s\n", mapping.EnvSources)
	}
	exit(1)
}

// exit closes the log file before ending the process, since deferred
// calls and PersistentPostRun do not run after os.Exit.
func exit(code int) {
	if logger != nil {
		logger.Close()
	}
	os.Exit(code)
}

// newEngine builds an engine over the configured mappings without watching.
func newEngine() (*engine.Engine, error) {
	inputs, err := cfg.Inputs()
	if err != nil {
		return nil, err
	}
	site, err := cfg.SiteLayout()
	if err != nil {
		return nil, err
	}

	fsys := fsops.OS()
	mappings := mapping.Build(inputs, site, fsys, logger.With("[config] "))
	if len(mappings) == 0 {
		return nil, mapping.ErrNoMappings
	}
	mapper, err := mapping.NewMapper(site, mappings)
	if err != nil {
		return nil, err
	}

	return engine.New(mapper, fsys, engine.Options{
		Extractor:        content.NewExtractor(cfg.Extractor),
		CascadeDirDelete: cfg.CascadeDirDelete,
		Logger:           logger.With("[engine] "),
	}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "advanced", Title: "Advanced Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: nearest mdsync.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file, rotated by size")

	// Flags override the config file and environment
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}
