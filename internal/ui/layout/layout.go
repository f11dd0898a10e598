// Package layout draws the chrome shared by every screen: a header bar
// with the screen title and status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

type KeyHint struct {
	Key         string
	Description string
}

// Chrome is what the header and footer show for the active screen.
type Chrome struct {
	Title  string
	Status string
	Hints  []KeyHint
}

// Fits reports whether a width x height terminal can hold the chrome and
// a practice screen.
func Fits(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// TooSmall is shown instead of the app when Fits is false.
func TooSmall(width, height int) string {
	msg := fmt.Sprintf("Terminal too small\n\nneed %d x %d, have %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// Render draws the chrome around body, which is asked to fill whatever
// height the header and footer leave.
func (c Chrome) Render(width, height int, body func(width, height int) string) string {
	header := c.header(width)
	footer := c.footer(width)
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// header centers the title between the app name and the status.
func (c Chrome) header(width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  LangDrill")
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(c.Title)
	status := lipgloss.NewStyle().Foreground(theme.Accent).Render(c.Status)

	inner := max(width-4, 0)
	nameW, titleW, statusW := lipgloss.Width(name), lipgloss.Width(title), lipgloss.Width(status)
	before := max((inner-titleW)/2-nameW, 1)
	after := max(inner-nameW-before-titleW-statusW, 1)

	line := name + strings.Repeat(" ", before) + title + strings.Repeat(" ", after) + status
	return bar.Width(width).Render(line)
}

func (c Chrome) footer(width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, len(c.Hints))
	for i, h := range c.Hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}
