package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	accentColor  = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("245")
	errorColor   = lipgloss.Color("196")

	promptStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)
	pathStyle    = lipgloss.NewStyle().Foreground(primaryColor)

	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(accentColor).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(primaryColor)
	matchStyle   = lipgloss.NewStyle().Underline(true)
	commentStyle = lipgloss.NewStyle().Foreground(mutedColor)
	hintStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	footerStyle = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)
