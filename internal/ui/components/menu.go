package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a movable cursor. Disabled items are shown
// dimmed and skipped by navigation. When Height is set, only a window of
// Height items around the cursor is rendered.
type Menu struct {
	Items    []MenuItem
	Selected int
	Height   int

	offset int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(-1, 1, false)
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// next returns the first enabled index after from in direction dir, or the
// current selection when there is none. With wrap the search continues
// past either end.
func (m Menu) next(from, dir int, wrap bool) int {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := from + dir*step
		if wrap {
			i = ((i % n) + n) % n
		} else if i < 0 || i >= n {
			break
		}
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.next(m.Selected, -1, true)
	case "down", "j":
		m.Selected = m.next(m.Selected, 1, true)
	case "home", "g":
		m.Selected = m.next(-1, 1, false)
	case "end", "G":
		m.Selected = m.next(len(m.Items), -1, false)
	case "pgup":
		m.Selected = m.next(max(m.Selected-m.page(), 0)+1, -1, false)
	case "pgdown":
		m.Selected = m.next(min(m.Selected+m.page(), len(m.Items)-1)-1, 1, false)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			return m, nil
		}
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	m.scroll()
	return m, nil
}

func (m Menu) page() int {
	if m.Height > 0 {
		return m.Height
	}
	return 10
}

// scroll keeps the cursor inside the visible window.
func (m *Menu) scroll() {
	if m.Height <= 0 {
		return
	}
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+m.Height {
		m.offset = m.Selected - m.Height + 1
	}
	m.offset = max(0, min(m.offset, len(m.Items)-m.Height))
}

// window returns the visible item range.
func (m Menu) window() (int, int) {
	if m.Height <= 0 || len(m.Items) <= m.Height {
		return 0, len(m.Items)
	}
	return m.offset, m.offset + m.Height
}

func (m Menu) View() string {
	from, to := m.window()
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	if from > 0 {
		b.WriteString(dim.Render("    ↑ more") + "\n")
	}
	for i := from; i < to; i++ {
		item := m.Items[i]
		switch {
		case i == m.Selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + item.Label))
		case item.Disabled:
			b.WriteString(dim.Render("    " + item.Label))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	if to < len(m.Items) {
		b.WriteString(dim.Render("    ↓ more") + "\n")
	}
	return b.String()
}
