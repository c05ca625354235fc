package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mschirtzinger/mdsync/internal/config"
	"github.com/mschirtzinger/mdsync/internal/ui"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "advanced",
	Short:   "Write a starter mdsync config file",
	Long: `Create mdsync.yaml (or mdsync.toml) in the current directory.

On a terminal, a short form asks for the site root, the notes directory and
an optional target. Otherwise the flags are used as given. An existing
config file is never overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		root, _ := cmd.Flags().GetString("root")
		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")
		format, _ := cmd.Flags().GetString("format")
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Site root").
						Description("Directory of the static site project").
						Value(&root),
					huh.NewInput().
						Title("Notes directory").
						Description("Source directory to mirror, e.g. your vault").
						Value(&source).
						Validate(requireDir),
					huh.NewInput().
						Title("Target directory").
						Description("Leave empty for <root>/src/content").
						Value(&target),
					huh.NewSelect[string]().
						Title("Format").
						Options(huh.NewOptions(config.Formats...)...).
						Value(&format),
				),
			)
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Println("Aborted")
					return
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exit(1)
			}
		}

		path := "mdsync." + format
		if err := config.Save(path, config.Starter(root, source, target)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(1)
		}

		abs, _ := filepath.Abs(path)
		fmt.Printf("%s Wrote %s\n", ui.RenderPass("✓"), abs)
		if source == "" {
			fmt.Printf("%s No source configured yet; add one under 'sources'\n", ui.RenderWarn("⚠"))
		}
		fmt.Printf("   Run 'mdsync dev' to start watching\n")
	},
}

func requireDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("a directory is required")
	}
	info, err := os.Stat(s)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

func init() {
	initCmd.Flags().String("root", ".", "site project root")
	initCmd.Flags().String("source", "", "notes directory to mirror")
	initCmd.Flags().String("target", "", "target directory (default: <root>/src/content)")
	initCmd.Flags().String("format", "yaml", "config format (yaml or toml)")
	initCmd.Flags().BoolP("yes", "y", false, "skip the interactive form")

	rootCmd.AddCommand(initCmd)
}
