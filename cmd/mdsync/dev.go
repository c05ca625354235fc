package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/mdsync/internal/content"
	"github.com/mschirtzinger/mdsync/internal/engine"
	"github.com/mschirtzinger/mdsync/internal/livereload"
	"github.com/mschirtzinger/mdsync/internal/ui"
	"github.com/mschirtzinger/mdsync/internal/watch"
)

var devCmd = &cobra.Command{
	Use:     "dev",
	GroupID: "sync",
	Short:   "Watch sources and mirror changes (foreground)",
	Long: `Watch every configured source directory and mirror changes into the
site while the dev server runs.

For each change:
  1. A new or edited Markdown file is copied with its links rewritten
  2. Every file it links to is copied first
  3. A deleted source file removes its mirrored copy

With --livereload-port, connected browsers are told about every change over
a WebSocket:
  ws://localhost:<port>/ws
  <script src="http://localhost:<port>/livereload.js"></script>`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLifecycle(cmd, engine.DevCommand); err != nil {
			fail(err)
		}
	},
}

var buildCmd = &cobra.Command{
	Use:     "build",
	GroupID: "sync",
	Short:   "Run the build lifecycle hook (content sync is skipped)",
	Long: `Run the integration hook the way a production build would.

Content sync only runs in dev mode, so this logs a warning and exits. Use
'mdsync sync' for a one-shot mirror before building.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLifecycle(cmd, "build"); err != nil {
			fail(err)
		}
	},
}

// runLifecycle runs the integration hook for command and, when it starts
// watching, blocks until interrupted. The live reload server is stopped
// before it returns.
func runLifecycle(cmd *cobra.Command, command string) error {
	inputs, err := cfg.Inputs()
	if err != nil {
		return fmt.Errorf("invalid sources: %w", err)
	}
	site, err := cfg.SiteLayout()
	if err != nil {
		return err
	}

	port := cfg.LiveReload.Port
	if cmd.Flags().Changed("livereload-port") {
		port, _ = cmd.Flags().GetInt("livereload-port")
	}

	// Live reload server is optional
	var notifier engine.Notifier
	var server *livereload.Server
	if command == engine.DevCommand && port > 0 {
		server = livereload.NewServer(&livereload.Config{
			Port:   port,
			Logger: logger.With("[livereload] "),
		})
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start live reload server: %w", err)
		}
		defer server.Stop()
		notifier = livereload.NewHandler(server, logger.With("[livereload] "))
	}

	integration := engine.NewIntegration(inputs, engine.IntegrationConfig{
		Watch: watch.Config{
			Debounce:    cfg.Debounce,
			InitialScan: cfg.InitialSync,
			Logger:      logger.With("[watch] "),
		},
		Engine: engine.Options{
			Extractor:        content.NewExtractor(cfg.Extractor),
			CascadeDirDelete: cfg.CascadeDirDelete,
			Logger:           logger.With("[engine] "),
			Notifier:         notifier,
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := integration.Setup(ctx, engine.Hook{
		Command: command,
		Logger:  logger.With("[mdsync] "),
		Site:    site,
	})
	if err != nil {
		return err
	}
	if eng == nil {
		fmt.Printf("%s Content sync skipped for %q\n", ui.RenderWarn("⚠"), command)
		return nil
	}

	fmt.Printf("%s Watching %d source(s)\n", ui.RenderAccent("👀"), len(eng.Mapper().Mappings()))
	for _, mp := range eng.Mapper().Mappings() {
		fmt.Printf("   %s -> %s\n", mp.Source, mp.Target)
	}
	if server != nil {
		fmt.Printf("   Live reload: ws://%s/ws\n", server.Addr())
	}
	fmt.Printf("\nPress Ctrl+C to stop\n\n")

	<-integration.Done()
	fmt.Printf("\n%s Stopped watching\n", ui.RenderPass("✓"))
	return nil
}

func init() {
	devCmd.Flags().IntP("livereload-port", "p", 0, "serve live reload events on this port (0 disables)")

	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(buildCmd)
}
