package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/mdsync/internal/content"
	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/ui"
)

// sourceStatus summarises one mapping for the status command.
type sourceStatus struct {
	documents int
	assets    int
	bytes     int64
	mirrored  int
}

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "sync",
	Short:   "Show configured sources and how much is mirrored",
	Long: `Display each configured source with its target directory.

Shows:
  - Number of Markdown documents and other files
  - Total size of the source files
  - How many of them already exist in the target`,
	Run: func(cmd *cobra.Command, args []string) {
		eng := mustEngine()

		plan, err := eng.Plan()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing sources: %v\n", err)
			exit(1)
		}

		fsys := fsops.OS()
		mapper := eng.Mapper()
		stats := make(map[string]*sourceStatus)
		for _, mp := range mapper.Mappings() {
			stats[mp.Source] = &sourceStatus{}
		}
		for _, f := range plan {
			owner, ok := mapper.Owner(f.Source)
			if !ok {
				continue
			}
			s := stats[owner.Source]
			if content.IsMarkdown(f.Source) {
				s.documents++
			} else {
				s.assets++
			}
			if size, err := fsys.Size(f.Source); err == nil {
				s.bytes += size
			}
			if fsys.IsFile(f.Target) {
				s.mirrored++
			}
		}

		fmt.Printf("\n%s Content Sync Status\n\n", ui.RenderAccent("📊"))
		if cfg.File != "" {
			fmt.Println(ui.RenderField("Config:", cfg.File))
		}
		fmt.Println(ui.RenderField("Site:", mapper.Site().RootDir))
		fmt.Println()

		for _, mp := range mapper.Mappings() {
			s := stats[mp.Source]
			total := s.documents + s.assets
			mark := ui.RenderPass("✓")
			if s.mirrored < total {
				mark = ui.RenderWarn("⚠")
			}

			fmt.Printf("%s %s\n", mark, mp.Source)
			fmt.Println("   " + ui.RenderField("Target:", mp.Target))
			fmt.Println("   " + ui.RenderField("Files:", fmt.Sprintf("%s documents, %s other",
				humanize.Comma(int64(s.documents)), humanize.Comma(int64(s.assets)))))
			fmt.Println("   " + ui.RenderField("Size:", humanize.Bytes(uint64(s.bytes))))
			fmt.Println("   " + ui.RenderField("Mirrored:", fmt.Sprintf("%d/%d", s.mirrored, total)))
			if len(mp.Ignored) > 0 {
				fmt.Println("   " + ui.RenderField("Ignored:", fmt.Sprint(mp.Ignored)))
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
