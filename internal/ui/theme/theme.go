// Package theme holds the TUI palette and the shared text styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary = lipgloss.Color("#6366F1")
	Accent  = lipgloss.Color("#F97316")
	Success = lipgloss.Color("#22C55E")
	Error   = lipgloss.Color("#F43F5E")
	Warning = lipgloss.Color("#EAB308")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0F172A")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")

	Gold = lipgloss.Color("#FACC15")
	Cyan = lipgloss.Color("#22D3EE")
	Teal = lipgloss.Color("#14B8A6")
)

// SectionColor is the highlight for a test section: listening, reading,
// speaking or writing. Anything else gets Primary.
func SectionColor(section string) color.Color {
	switch section {
	case "listening":
		return Cyan
	case "reading":
		return Teal
	case "speaking":
		return Accent
	case "writing":
		return Gold
	}
	return Primary
}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)

	Selected  = fg(Primary).Bold(true)
	Correct   = fg(Success).Bold(true)
	Incorrect = fg(Error).Bold(true)
	Warn      = fg(Warning).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Background(Teal)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	// Timer turns into TimerLow for the last seconds of a phase.
	Timer    = fg(Cyan).Bold(true)
	TimerLow = fg(Error).Bold(true)
)
