package ui

import "github.com/charmbracelet/lipgloss"

// Status line styles
var (
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
