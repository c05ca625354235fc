package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/mdsync/internal/engine"
	"github.com/mschirtzinger/mdsync/internal/ui"
)

var linksCmd = &cobra.Command{
	Use:     "links <file>",
	GroupID: "advanced",
	Short:   "Show how a document's links would be rewritten",
	Long: `Extract the links of a Markdown document under a configured source and
print, for each one, the file it resolves to and the URL it is rewritten to.
Nothing is copied.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng := mustEngine()

		path, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(1)
		}

		links, err := eng.Links(path)
		if errors.Is(err, engine.ErrUnowned) {
			fmt.Fprintf(os.Stderr, "Error: %s is not under any configured source\n", path)
			exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(1)
		}

		if len(links) == 0 {
			fmt.Printf("No links found in %s\n", path)
			return
		}

		resolved := 0
		for _, link := range links {
			if !link.Found() {
				fmt.Printf("%s %s %s\n", ui.RenderWarn("✗"), link.Raw, ui.RenderMuted("(not found, kept as is)"))
				continue
			}
			resolved++
			fmt.Printf("%s %s -> %s\n", ui.RenderPass("✓"), link.Raw, ui.RenderAccent(link.URL))
			fmt.Printf("   %s\n", ui.RenderMuted(link.Path+" -> "+link.Target))
		}
		fmt.Printf("\n%d of %d links resolved\n", resolved, len(links))
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
