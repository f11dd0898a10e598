package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/ui/theme"
)

// ChoiceOption is one selectable answer.
type ChoiceOption struct {
	Label string
	Text  string
}

// ChoiceList is a single- or multi-select answer list. Space or enter
// picks the option under the cursor; with Multi set it toggles instead.
type ChoiceList struct {
	Stem    string
	Options []ChoiceOption
	Multi   bool
	Cursor  int
	Locked  bool

	chosen map[string]bool

	// Shown once the answer has been scored.
	correct  map[string]bool
	revealed bool
}

// NewChoiceList creates a choice list with nothing selected.
func NewChoiceList(stem string, options []ChoiceOption, multi bool) ChoiceList {
	return ChoiceList{
		Stem:    stem,
		Options: options,
		Multi:   multi,
		chosen:  map[string]bool{},
	}
}

// Update handles navigation and selection. changed reports whether the
// selection set changed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Locked || len(c.Options) == 0 {
		return c, false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		return c.pick(c.Cursor), true
	default:
		// Letter keys jump straight to an option.
		key := strings.ToUpper(kmsg.String())
		for i, opt := range c.Options {
			if strings.EqualFold(opt.Label, key) {
				c.Cursor = i
				return c.pick(i), true
			}
		}
	}
	return c, false
}

func (c ChoiceList) pick(i int) ChoiceList {
	label := c.Options[i].Label
	next := make(map[string]bool, len(c.chosen)+1)
	if c.Multi {
		for k, v := range c.chosen {
			next[k] = v
		}
		if next[label] {
			delete(next, label)
		} else {
			next[label] = true
		}
	} else {
		next[label] = true
	}
	c.chosen = next
	return c
}

// Values returns the chosen labels in option order.
func (c ChoiceList) Values() []string {
	var out []string
	for _, opt := range c.Options {
		if c.chosen[opt.Label] {
			out = append(out, opt.Label)
		}
	}
	return out
}

// Reveal marks the correct labels and locks the list.
func (c ChoiceList) Reveal(correct []string) ChoiceList {
	c.correct = make(map[string]bool, len(correct))
	for _, l := range correct {
		c.correct[strings.ToUpper(strings.TrimSpace(l))] = true
	}
	c.revealed = true
	c.Locked = true
	return c
}

// View renders the list.
func (c ChoiceList) View() string {
	var b strings.Builder
	if c.Stem != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Stem))
		b.WriteString("\n\n")
	}

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Locked {
			prefix = "▸ "
		}
		mark := "( )"
		if c.Multi {
			mark = "[ ]"
		}
		if c.chosen[opt.Label] {
			mark = "(•)"
			if c.Multi {
				mark = "[x]"
			}
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, opt.Label, opt.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.revealed && c.correct[strings.ToUpper(opt.Label)]:
			style = theme.Correct
		case c.revealed && c.chosen[opt.Label]:
			style = theme.Incorrect
		case c.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
