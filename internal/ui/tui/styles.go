package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	timer    lipgloss.Style
	warning  lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	enabled  lipgloss.Style
	disabled lipgloss.Style
	editor   lipgloss.Style
	modal    lipgloss.Style
	blocked  lipgloss.Style
	status   lipgloss.Style
	alert    lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("39")
	muted := lipgloss.Color("241")
	red := lipgloss.Color("196")
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		timer:    lipgloss.NewStyle().Bold(true),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(red),
		tab:      lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		tabOn:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent),
		enabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		disabled: lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		editor:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2),
		blocked:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(red).Foreground(red).Padding(1, 2),
		status:   lipgloss.NewStyle().Foreground(muted),
		alert:    lipgloss.NewStyle().Bold(true).Foreground(red),
	}
}
