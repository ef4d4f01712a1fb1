package main

import "github.com/charmbracelet/lipgloss"

var (
	// successStyle for completion messages
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// dimStyle for muted progress text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
