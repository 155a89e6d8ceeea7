package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/weather-lookup/internal/theme"
)

var (
	colorMuted = lipgloss.Color("241")
	colorError = lipgloss.Color("203")
)

// TitleStyle for the app header.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1)

// ErrorBanner style for the failure message shown after a failed query.
var ErrorBanner = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorError).
	Padding(0, 1)

// HelpText style for key hints.
var HelpText = lipgloss.NewStyle().
	Foreground(colorMuted)

// HistorySelected marks the history entry the next tab press filled in.
var HistorySelected = lipgloss.NewStyle().
	Bold(true).
	Underline(true)

// palette holds the lipgloss styles derived from the chart style bundle.
type palette struct {
	text   lipgloss.Style
	grid   lipgloss.Style
	border lipgloss.Style
	line   lipgloss.Style
}

func newPalette(p theme.StyleParameters) palette {
	return palette{
		text:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextColor)),
		grid:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.GridColor)),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color(p.BorderColor)),
		line:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.LineColor)),
	}
}
