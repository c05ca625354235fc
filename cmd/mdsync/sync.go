package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/mdsync/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "sync",
	Short:   "Mirror every source once and exit",
	Long: `Mirror every file of every configured source into the site.

This performs a full sync:
  1. Lists every file under each source, skipping ignored paths
  2. Copies non-Markdown files as they are
  3. Copies each Markdown document's linked files, then the document with
     rewritten links

Run it before a production build, where watching is disabled.`,
	Run: func(cmd *cobra.Command, args []string) {
		eng := mustEngine()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Printf("%s Syncing %d source(s)...\n", ui.RenderAccent("🔄"), len(eng.Mapper().Mappings()))
		start := time.Now()

		stats, err := eng.FullSync(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error during sync: %v\n", err)
			exit(1)
		}

		elapsed := time.Since(start)
		if stats.Failed > 0 {
			fmt.Printf("%s Sync finished with errors in %v\n", ui.RenderWarn("⚠"), elapsed.Round(time.Millisecond))
		} else {
			fmt.Printf("%s Sync complete in %v\n", ui.RenderPass("✓"), elapsed.Round(time.Millisecond))
		}
		fmt.Printf("   Files: %d\n", stats.Files)
		fmt.Printf("   Failed: %d\n", stats.Failed)

		if stats.Failed > 0 {
			exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
