package tui

import "github.com/charmbracelet/lipgloss"

// Ratio colors
var (
	colorPoor    = lipgloss.Color("#FF0000")
	colorFair    = lipgloss.Color("#FFFF00")
	colorGood    = lipgloss.Color("#00FF00")
	colorMuted   = lipgloss.Color("#888888")
	colorAccent  = lipgloss.Color("#7B68EE")
	colorBorder  = lipgloss.Color("#444444")
	colorInsight = lipgloss.Color("#00BFFF")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)

	styleInsight = lipgloss.NewStyle().
			Foreground(colorInsight)
)

// ratioStyle colors a comment ratio against the treemap scale (0 to 0.4).
func ratioStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio >= 0.2:
		return lipgloss.NewStyle().Foreground(colorGood).Bold(true)
	case ratio >= 0.1:
		return lipgloss.NewStyle().Foreground(colorGood)
	case ratio >= 0.05:
		return lipgloss.NewStyle().Foreground(colorFair)
	default:
		return lipgloss.NewStyle().Foreground(colorPoor).Bold(true)
	}
}
