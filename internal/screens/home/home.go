// Package home is the landing screen: logo, a progress dashboard and the
// main menu.
package home

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/screens/catalog"
	"github.com/abhisek/langdrill/internal/screens/history"
	"github.com/abhisek/langdrill/internal/screens/practice"
	progressscreen "github.com/abhisek/langdrill/internal/screens/progress"
	"github.com/abhisek/langdrill/internal/store"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

// UpdateAvailableMsg is sent by the app when a newer release exists.
type UpdateAvailableMsg struct {
	Version string
}

type Deps struct {
	Practice practice.Env
	Tracker  *progress.Tracker
	Events   store.EventRepo
}

type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	board  dashboard
	update string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New builds the menu. Entries whose backing service is missing are
// disabled rather than hidden.
func New(deps Deps) *HomeScreen {
	var reg *exercise.Registry
	if deps.Practice.Catalog != nil {
		reg = deps.Practice.Catalog.Registry()
	}
	noCatalog := reg == nil

	items := []components.MenuItem{
		{Label: "PRACTICE", Disabled: noCatalog, Action: func() tea.Cmd {
			return router.Open(catalog.New(deps.Practice))
		}},
		{Label: "PROGRESS", Disabled: noCatalog || deps.Tracker == nil, Action: func() tea.Cmd {
			return router.Open(progressscreen.New(reg, deps.Tracker))
		}},
		{Label: "HISTORY", Disabled: noCatalog || deps.Events == nil, Action: func() tea.Cmd {
			return router.Open(history.New(deps.Events, reg))
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{deps: deps, menu: components.NewMenu(items)}
	h.refresh()
	return h
}

// refresh reloads the dashboard from the tracker. Errors leave the old
// numbers in place.
func (h *HomeScreen) refresh() {
	if h.deps.Tracker == nil {
		return
	}
	if recs, err := h.deps.Tracker.All(context.Background()); err == nil {
		h.board = summarize(recs)
	}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumedMsg:
		h.refresh()
		return h, nil
	case UpdateAvailableMsg:
		h.update = msg.Version
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	// Below these sizes the block logo and bordered buttons do not fit.
	compact := width < 100 || height < 32
	tight := height < 22

	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	parts := []string{
		center.Render(logo(cw, compact)),
		h.board.view(cw, compact),
	}
	if h.deps.Practice.Evaluator == nil {
		parts = append(parts, center.Foreground(theme.Accent).
			Render("⚠ No evaluator configured: speaking and writing answers stay unscored (see langdrill --help)"))
	}
	parts = append(parts, center.Render(h.buttons(tight)))
	if h.update != "" {
		parts = append(parts, center.Foreground(theme.TextDim).Render("New version "+h.update+" available, run langdrill update"))
	}

	return components.Frame(lipgloss.JoinVertical(lipgloss.Center, spaced(parts)...), width, height, theme.Primary)
}

// buttons draws the menu as bordered buttons, or as plain lines when tight.
func (h *HomeScreen) buttons(tight bool) string {
	if tight {
		return h.menu.View()
	}
	out := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		state := components.ButtonNormal
		switch {
		case item.Disabled:
			state = components.ButtonDisabled
		case i == h.menu.Selected:
			state = components.ButtonSelected
		}
		out[i] = components.Button(item.Label, state, 22)
	}
	return lipgloss.JoinVertical(lipgloss.Center, out...)
}

// spaced puts a blank line between parts.
func spaced(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, p)
	}
	return out
}
