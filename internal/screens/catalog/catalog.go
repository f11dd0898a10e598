// Package catalog lets the learner pick an exercise kind and then a record
// to practise.
package catalog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/screens/practice"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/layout"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

// KindsScreen lists every registered kind grouped by section.
type KindsScreen struct {
	env   practice.Env
	kinds []exercise.Kind
	menu  components.Menu
}

var _ screen.Screen = (*KindsScreen)(nil)

// New creates the kind list over env.Catalog.
func New(env practice.Env) *KindsScreen {
	s := &KindsScreen{env: env}
	reg := env.Catalog.Registry()

	var items []components.MenuItem
	for _, sec := range reg.Sections() {
		for _, k := range reg.BySection(sec) {
			k := k
			n := env.Catalog.Count(k.ID)
			label := fmt.Sprintf("%-10s %-36s %3d", strings.ToUpper(string(k.Section)), k.Title, n)
			items = append(items, components.MenuItem{
				Label:    label,
				Disabled: n == 0,
				Action: func() tea.Cmd {
					return router.Open(NewRecords(env, k))
				},
			})
			s.kinds = append(s.kinds, k)
		}
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *KindsScreen) Init() tea.Cmd { return nil }

func (s *KindsScreen) Title() string { return "Practice" }

func (s *KindsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *KindsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Choose an exercise"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	if sel := s.menu.Selected; sel >= 0 && sel < len(s.kinds) && s.kinds[sel].Instructions != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Width(width).Render(s.kinds[sel].Instructions))
	}
	return b.String()
}

func (s *KindsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

const recordsVisible = 12

// RecordsScreen lists the records of one kind.
type RecordsScreen struct {
	env  practice.Env
	kind exercise.Kind
	menu components.Menu
	err  string
}

var _ screen.Screen = (*RecordsScreen)(nil)

// NewRecords creates the record list for kind.
func NewRecords(env practice.Env, kind exercise.Kind) *RecordsScreen {
	s := &RecordsScreen{env: env, kind: kind}

	var items []components.MenuItem
	for _, rec := range env.Catalog.Records(kind.ID) {
		rec := rec
		title := rec.Title
		if title == "" {
			title = firstLine(rec.Prompt, 40)
		}
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("%3d  %s", rec.ID, title),
			Action: func() tea.Cmd {
				scr, err := practice.New(env, kind, rec)
				if err != nil {
					s.err = err.Error()
					return nil
				}
				return router.Open(scr)
			},
		})
	}
	s.menu = components.NewMenu(items)
	s.menu.Height = recordsVisible
	return s
}

func (s *RecordsScreen) Init() tea.Cmd { return nil }

func (s *RecordsScreen) Title() string { return s.kind.Title }

func (s *RecordsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *RecordsScreen) View(width, height int) string {
	var b strings.Builder
	heading := lipgloss.NewStyle().
		Foreground(theme.SectionColor(string(s.kind.Section))).
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Render(strings.ToUpper(string(s.kind.Section)) + " · " + s.kind.Title)
	b.WriteString(heading)
	b.WriteString("\n\n")

	if len(s.menu.Items) == 0 {
		b.WriteString(theme.Subtitle.Width(width).Render("No questions loaded for this exercise."))
		return b.String()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(width).Align(lipgloss.Center).Render(s.err))
	}
	return b.String()
}

func (s *RecordsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practise"},
		{Key: "Esc", Description: "Back"},
	}
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(strings.TrimSpace(s))
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return string(r)
}
