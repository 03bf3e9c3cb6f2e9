package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle uses ANSI 6 (cyan) for headings.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// SubtitleStyle is dimmed text under a heading.
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	// LabelStyle marks input labels.
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// ScoreStyle highlights perplexity values.
	ScoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// DescStyle ANSI 8 (bright black) for secondary text.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// ErrorStyle renders error banners.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")).
			Bold(true).
			Padding(0, 1)
)
