// Package ui renders terminal output for the mdsync commands.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	// Colors
	Accent = lipgloss.Color("#7C3AED") // Purple
	Pass   = lipgloss.Color("#10B981") // Green
	Muted  = lipgloss.Color("#6B7280") // Gray
	Warn   = lipgloss.Color("#F59E0B") // Amber
	Fail   = lipgloss.Color("#EF4444") // Red

	accentStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(Pass).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(Warn).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(Fail).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(Muted)

	// Label is used for the left column of key/value listings.
	Label = lipgloss.NewStyle().Foreground(Muted).Width(10)
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		SetColor(false)
	}
}

// SetColor switches colored output on or off.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func RenderAccent(s string) string { return accentStyle.Render(s) }
func RenderPass(s string) string   { return passStyle.Render(s) }
func RenderWarn(s string) string   { return warnStyle.Render(s) }
func RenderFail(s string) string   { return failStyle.Render(s) }
func RenderMuted(s string) string  { return mutedStyle.Render(s) }

// RenderField renders "label value" with an aligned label.
func RenderField(label, value string) string {
	return Label.Render(label) + " " + value
}
