package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/ui/theme"
)

// ContentWidth is the inner width shared by every boxed section inside a
// frame of frameWidth columns. Passages read badly past ~70 columns.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 24), 72)
}

// Frame draws a double border around content and centres it in the area.
func Frame(content string, width, height int, accent color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// SectionCard boxes content in the highlight colour of a test section.
func SectionCard(content string, cw int, section string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.SectionColor(section)).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState selects how a Button renders.
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// Button renders a bordered, fixed-width menu button.
func Button(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Gold).
			BorderForeground(theme.Gold).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.Foreground(theme.TextDim).Render(label)
	}
	return style.Foreground(theme.Text).Render(label)
}
