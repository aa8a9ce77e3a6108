package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the pre-configured lipgloss styles for the chat view.
type Styles struct {
	// Title styles the header bar.
	Title lipgloss.Style

	// UserLabel styles the "You:" prefix.
	UserLabel lipgloss.Style

	// AssistantLabel styles the "Recall:" prefix.
	AssistantLabel lipgloss.Style

	// Answer styles generated answers.
	Answer lipgloss.Style

	// Source styles source citations under an answer.
	Source lipgloss.Style

	// Status styles the bottom status line.
	Status lipgloss.Style

	// Error styles error text.
	Error lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1")),
		Answer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")),
		Source: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
	}
}
