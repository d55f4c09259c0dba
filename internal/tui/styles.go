package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every screen.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for hints and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for completed actions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle marks generators with an update available.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CursorStyle renders the focused choice.
	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	// SeparatorStyle renders non-selectable group headers.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)
