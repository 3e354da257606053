package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// Single source of truth for all TUI colors.
var (
	amber       = lipgloss.Color("#FFD8A8") // warm amber - primary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // soft mint green - success states
	mutedGray   = lipgloss.Color("#6B7280") // muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // bright white - primary text
	softRed     = lipgloss.Color("#FFB3BA") // soft red - warnings
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	goalStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	warningStyle = lipgloss.NewStyle().
			Foreground(softRed)

	eventStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	discoveryStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)
)
