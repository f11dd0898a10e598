package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/scoring"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

// Meter is a one-line bar used for scores and phase countdowns.
type Meter struct {
	Ratio float64
	Width int

	// Mark draws a tick at this ratio. Zero hides it.
	Mark float64

	// Fill overrides the filled segment colour; Low applies below Mark.
	Fill lipgloss.Style
	Low  *lipgloss.Style

	ShowPercent bool
}

// ScoreMeter shows a result ratio with the pass mark ticked. The fill turns
// amber while the score is below the mark.
func ScoreMeter(ratio float64, width int) Meter {
	low := lipgloss.NewStyle().Background(theme.Warning)
	return Meter{
		Ratio:       ratio,
		Width:       width,
		Mark:        scoring.PassPercent / 100.0,
		Fill:        lipgloss.NewStyle().Background(theme.Success),
		Low:         &low,
		ShowPercent: true,
	}
}

// TimeMeter drains as a phase runs out. The last five seconds render red.
func TimeMeter(remaining, budget, width int) Meter {
	ratio := 0.0
	if budget > 0 {
		ratio = float64(remaining) / float64(budget)
	}
	m := Meter{Ratio: ratio, Width: width, Fill: theme.ProgressFilled}
	if remaining <= 5 {
		m.Fill = lipgloss.NewStyle().Background(theme.Error)
	}
	return m
}

func (m Meter) cells() (filled, mark, bar int) {
	bar = m.Width
	if m.ShowPercent {
		bar -= 6
	}
	bar = max(bar, 4)

	ratio := min(max(m.Ratio, 0), 1)
	filled = int(float64(bar) * ratio)
	mark = -1
	if m.Mark > 0 && m.Mark < 1 {
		mark = int(float64(bar) * m.Mark)
	}
	return filled, mark, bar
}

// View renders the bar.
func (m Meter) View() string {
	filled, mark, bar := m.cells()

	fill := m.Fill
	if m.Low != nil && m.Ratio < m.Mark {
		fill = *m.Low
	}

	var b strings.Builder
	for i := 0; i < bar; i++ {
		style := theme.ProgressEmpty
		if i < filled {
			style = fill
		}
		cell := " "
		if i == mark {
			cell = "│"
		}
		b.WriteString(style.Render(cell))
	}
	if m.ShowPercent {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3.0f%%", min(max(m.Ratio, 0), 1)*100)))
	}
	return b.String()
}
