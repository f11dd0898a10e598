// Package history is the TUI list of past submissions, newest first, with
// a section filter and the stored feedback for the selected attempt.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/scoring"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/store"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/layout"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

const limit = 200

type loadedMsg struct {
	attempts []store.AttemptRecord
	err      error
}

type HistoryScreen struct {
	repo     store.EventRepo
	registry *exercise.Registry

	all     []store.AttemptRecord
	shown   []store.AttemptRecord
	filters []exercise.Section // "" is every section
	filter  int
	menu    components.Menu
	detail  bool

	loaded bool
	err    error
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
	_ screen.StatusProvider  = (*HistoryScreen)(nil)
)

// New lists attempts from repo. A nil registry shows kind IDs instead of
// titles and disables the section filter.
func New(repo store.EventRepo, registry *exercise.Registry) *HistoryScreen {
	s := &HistoryScreen{repo: repo, registry: registry, filters: []exercise.Section{""}}
	if registry != nil {
		s.filters = append(s.filters, registry.Sections()...)
	}
	return s
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return loadedMsg{}
		}
		attempts, err := repo.QueryAttempts(context.Background(), store.QueryOpts{Limit: limit})
		return loadedMsg{attempts: attempts, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) Status() string {
	if f := s.filters[s.filter]; f != "" {
		return strings.ToUpper(string(f)) + "  "
	}
	return ""
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Feedback"},
		{Key: "Tab", Description: "Section"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded, s.err, s.all = true, msg.err, msg.attempts
		s.apply()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.filter = (s.filter + 1) % len(s.filters)
			s.apply()
			return s, nil
		case "shift+tab":
			s.filter = (s.filter + len(s.filters) - 1) % len(s.filters)
			s.apply()
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

// apply rebuilds the visible list for the current filter.
func (s *HistoryScreen) apply() {
	want := s.filters[s.filter]
	s.shown = s.shown[:0]
	items := []components.MenuItem{}
	for _, a := range s.all {
		if want != "" && !strings.HasPrefix(a.KindID, string(want)+"/") {
			continue
		}
		s.shown = append(s.shown, a)
		items = append(items, components.MenuItem{
			Label:  s.row(a),
			Action: func() tea.Cmd { s.detail = !s.detail; return nil },
		})
	}
	height := s.menu.Height
	s.menu = components.NewMenu(items)
	s.menu.Height = height
	s.detail = false
}

func (s *HistoryScreen) selected() (store.AttemptRecord, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.shown) {
		return store.AttemptRecord{}, false
	}
	return s.shown[s.menu.Selected], true
}

func (s *HistoryScreen) View(width, height int) string {
	centered := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render("\n\n" + text)
	}
	switch {
	case s.err != nil:
		return centered(lipgloss.NewStyle().Foreground(theme.Error), "Could not load history: "+s.err.Error())
	case !s.loaded:
		return centered(theme.Hint, "Loading history...")
	case len(s.all) == 0:
		return centered(theme.Hint, "No attempts yet. Start practising!")
	case len(s.shown) == 0:
		return centered(theme.Hint, "Nothing in "+string(s.filters[s.filter])+" yet. Tab shows another section.")
	}

	var pane string
	if a, ok := s.selected(); ok && s.detail {
		pane = detailPane(a, components.ContentWidth(width))
	}
	s.menu.Height = max(height-lipgloss.Height(pane)-3, 3)

	body := s.menu.View()
	if pane != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, pane)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+body)
}

func (s *HistoryScreen) row(a store.AttemptRecord) string {
	return fmt.Sprintf("%s  %-34s #%-3d %-12s %s",
		a.Timestamp.Local().Format("Jan 02 15:04"), truncate(s.kindTitle(a.KindID), 34),
		a.RecordID, outcome(a), clock(a.ElapsedSecs))
}

func (s *HistoryScreen) kindTitle(id string) string {
	if s.registry != nil {
		if k, ok := s.registry.Get(id); ok {
			return string(k.Section) + " · " + k.Title
		}
	}
	return id
}

func outcome(a store.AttemptRecord) string {
	if !a.Scored {
		return "unscored"
	}
	mark := "✗"
	if a.Percent >= scoring.PassPercent {
		mark = "✓"
	}
	text := fmt.Sprintf("%s %3.0f%%", mark, a.Percent)
	if a.Total > 0 {
		text += fmt.Sprintf(" %d/%d", a.Correct, a.Total)
	}
	return text
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// detailPane shows what was stored with the attempt: feedback, the notice
// of a failed evaluation, and who scored it.
func detailPane(a store.AttemptRecord, width int) string {
	var lines []string
	if a.Feedback != "" {
		lines = append(lines, a.Feedback)
	}
	if a.Notice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Warning).Render(a.Notice))
	}
	if a.Source != "" {
		lines = append(lines, theme.Hint.Render("scored "+a.Source))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Hint.Render("No feedback recorded."))
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n\n"))
}
