// Package progress shows the persisted per-kind statistics.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	tracking "github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/layout"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

type loadedMsg struct {
	records map[string]tracking.Record
	err     error
}

// Screen lists every kind with its accuracy, streak and completion count.
type Screen struct {
	registry *exercise.Registry
	tracker  *tracking.Tracker
	records  map[string]tracking.Record
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the progress screen.
func New(registry *exercise.Registry, tracker *tracking.Tracker) *Screen {
	return &Screen{registry: registry, tracker: tracker}
}

func (s *Screen) Init() tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		if tracker == nil {
			return loadedMsg{}
		}
		recs, err := tracker.All(context.Background())
		return loadedMsg{records: recs, err: err}
	}
}

func (s *Screen) Title() string { return "Progress" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(loadedMsg); ok {
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		}
		s.records = msg.records
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}

	cw := width - 8
	if cw > 90 {
		cw = 90
	}

	var rows []string
	for _, sec := range s.registry.Sections() {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.SectionColor(string(sec))).
			Bold(true).
			Render(strings.ToUpper(string(sec))))

		for _, k := range s.registry.BySection(sec) {
			rows = append(rows, s.renderRow(k, cw))
		}
		rows = append(rows, "")
	}

	block := strings.Join(rows, "\n")
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func (s *Screen) renderRow(k exercise.Kind, cw int) string {
	rec, ok := s.records[k.ID]
	if !ok || rec.Completed == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %-36s not started", k.Title))
	}

	stats := fmt.Sprintf("  done %-3d streak %-2d best %3.0f%%", rec.Completed, rec.Streak, rec.BestPercent)
	barWidth := cw - 40 - lipgloss.Width(stats)
	if barWidth < 12 {
		barWidth = 12
	}
	bar := components.ScoreMeter(rec.Accuracy, barWidth).View()
	if rec.Scored == 0 {
		bar = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%-*s", barWidth, "awaiting scores"))
	}
	return fmt.Sprintf("  %-36s ", k.Title) + bar + lipgloss.NewStyle().Foreground(theme.TextDim).Render(stats)
}
