package home

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/screens/welcome"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

var sections = []exercise.Section{
	exercise.SectionListening,
	exercise.SectionReading,
	exercise.SectionSpeaking,
	exercise.SectionWriting,
}

// tally is progress summed over several kinds. accuracy is weighted by
// the number of scored submissions.
type tally struct {
	completed  int
	scored     int
	accuracy   float64
	bestStreak int
}

func (t *tally) add(r progress.Record) {
	if n := t.scored + r.Scored; n > 0 {
		t.accuracy = (t.accuracy*float64(t.scored) + r.Accuracy*float64(r.Scored)) / float64(n)
	}
	t.completed += r.Completed
	t.scored += r.Scored
	t.bestStreak = max(t.bestStreak, r.BestStreak)
}

func (t tally) percent() string {
	if t.scored == 0 {
		return "--"
	}
	return fmt.Sprintf("%.0f%%", t.accuracy*100)
}

type dashboard struct {
	total     tally
	bySection map[exercise.Section]tally
}

// summarize groups progress records, keyed by kind ID, by section.
func summarize(recs map[string]progress.Record) dashboard {
	d := dashboard{bySection: map[exercise.Section]tally{}}
	for id, r := range recs {
		d.total.add(r)
		sec, _, _ := strings.Cut(id, "/")
		t := d.bySection[exercise.Section(sec)]
		t.add(r)
		d.bySection[exercise.Section(sec)] = t
	}
	return d
}

func (d dashboard) view(cw int, compact bool) string {
	bold := func(c color.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := fmt.Sprintf("%s  %s %s  %s",
		bold(theme.Gold).Render(fmt.Sprintf("✓ %d DONE", d.total.completed)),
		bold(theme.Accent).Render(d.total.percent()), dim.Render("ACCURACY"),
		bold(theme.Cyan).Render(fmt.Sprintf("⚡ %d BEST STREAK", d.total.bestStreak)))
	if !compact {
		chips := make([]string, len(sections))
		for i, s := range sections {
			t := d.bySection[s]
			chips[i] = bold(theme.SectionColor(string(s))).Render(strings.ToUpper(string(s[:1]))) +
				dim.Render(fmt.Sprintf(" %d·%s", t.completed, t.percent()))
		}
		line += "\n" + strings.Join(chips, "   ")
	}

	return lipgloss.NewStyle().
		Width(cw).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Cyan).
		Align(lipgloss.Center).
		Render(line)
}

func logo(cw int, compact bool) string {
	text := welcome.Banner(cw)
	if compact {
		text = welcome.Banner(0)
	}
	return lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(text)
}
