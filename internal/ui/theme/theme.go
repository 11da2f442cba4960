// Package theme holds the terminal palette and styles used by CLI output.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Status
var (
	OK = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Badge = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a single challenge or skill description.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Bar segments
var (
	BarFilled = lipgloss.NewStyle().
			Foreground(Success)

	BarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)
