package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
// lipgloss v1.x auto-detects TrueColor but doesn't apply it without
// an explicit SetColorProfile call on some terminals.
var Renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// Theme accents.
const (
	AccentDark  = "#39E09B"
	AccentLight = "#1F8F5F"
)

// Predefined styles for consistent CLI output.
var (
	Accent = Renderer.NewStyle().Foreground(lipgloss.Color(AccentDark)).Bold(true)
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	White  = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// SetTheme switches the accent colour to match the saved UI theme.
func SetTheme(theme string) {
	color := AccentDark
	if theme == "light" {
		color = AccentLight
	}
	Accent = Accent.Foreground(lipgloss.Color(color))
}

// DisableColor renders all styles as plain text, for non-terminal output.
func DisableColor() {
	Renderer.SetColorProfile(termenv.Ascii)
}
