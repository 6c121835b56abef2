// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette shared by every command's output, tuned for dark terminals.
const (
	// ColorPrimary (purple) marks titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted (gray) marks subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess (green) marks completed operations.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError (red) marks failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning (amber) marks non-fatal problems.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight (blue) marks file paths and identifiers.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Styles built from the palette, used across all commands.
var (
	// TitleStyle renders primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle renders secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle renders completion messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle renders failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle renders non-fatal problem messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PathStyle renders file paths and identifiers.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
