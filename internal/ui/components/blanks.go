package components

import (
	"regexp"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/ui/theme"
)

var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// BlankInputs holds one text input per gap in a fill-in-the-blanks text.
// Tab and shift+tab move between gaps.
type BlankInputs struct {
	Text   string
	IDs    []int
	Inputs []textinput.Model
	Focus  int
	Locked bool

	// Set by Reveal: per-gap correctness and expected answers.
	correct  []bool
	expected []string
}

// NewBlankInputs creates inputs for the given gap ids, focusing the first.
func NewBlankInputs(text string, ids []int) BlankInputs {
	inputs := make([]textinput.Model, len(ids))
	for i, id := range ids {
		ti := textinput.New()
		ti.Placeholder = "[" + strconv.Itoa(id) + "]"
		ti.Prompt = ""
		ti.CharLimit = 40
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return BlankInputs{Text: text, IDs: ids, Inputs: inputs}
}

// Update routes keys to the focused input. changed reports whether any
// value changed.
func (b BlankInputs) Update(msg tea.Msg) (BlankInputs, tea.Cmd, bool) {
	if b.Locked || len(b.Inputs) == 0 {
		return b, nil, false
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return b.move(1), nil, false
		case "shift+tab", "up":
			return b.move(-1), nil, false
		}
	}

	before := b.Inputs[b.Focus].Value()
	var cmd tea.Cmd
	b.Inputs[b.Focus], cmd = b.Inputs[b.Focus].Update(msg)
	return b, cmd, b.Inputs[b.Focus].Value() != before
}

func (b BlankInputs) move(delta int) BlankInputs {
	inputs := make([]textinput.Model, len(b.Inputs))
	copy(inputs, b.Inputs)
	inputs[b.Focus].Blur()
	b.Focus = (b.Focus + delta + len(inputs)) % len(inputs)
	inputs[b.Focus].Focus()
	b.Inputs = inputs
	return b
}

// Values returns the current answers in gap order.
func (b BlankInputs) Values() []string {
	out := make([]string, len(b.Inputs))
	for i, in := range b.Inputs {
		out[i] = in.Value()
	}
	return out
}

// Lock freezes the inputs.
func (b BlankInputs) Lock() BlankInputs {
	inputs := make([]textinput.Model, len(b.Inputs))
	copy(inputs, b.Inputs)
	for i := range inputs {
		inputs[i].Blur()
	}
	b.Inputs = inputs
	b.Locked = true
	return b
}

// Reveal locks the inputs and records which gaps were right.
func (b BlankInputs) Reveal(correct []bool, expected []string) BlankInputs {
	b = b.Lock()
	b.correct = correct
	b.expected = expected
	return b
}

// View renders the passage with gap markers replaced by the inputs.
func (b BlankInputs) View() string {
	index := make(map[int]int, len(b.IDs))
	for i, id := range b.IDs {
		index[id] = i
	}

	passage := markerRe.ReplaceAllStringFunc(b.Text, func(m string) string {
		id, _ := strconv.Atoi(markerRe.FindStringSubmatch(m)[1])
		i, ok := index[id]
		if !ok {
			return m
		}
		return b.gap(i)
	})
	return lipgloss.NewStyle().Foreground(theme.Text).Render(passage)
}

func (b BlankInputs) gap(i int) string {
	if i < len(b.correct) {
		given := strings.TrimSpace(b.Inputs[i].Value())
		if given == "" {
			given = "___"
		}
		if b.correct[i] {
			return theme.Correct.Render(given)
		}
		return theme.Incorrect.Render(given) + theme.Correct.Render(" ("+b.expected[i]+")")
	}
	if b.Locked {
		v := b.Inputs[i].Value()
		if v == "" {
			v = "___"
		}
		return lipgloss.NewStyle().Underline(true).Render(v)
	}
	style := lipgloss.NewStyle().Underline(true)
	if i == b.Focus {
		style = style.Foreground(theme.Primary)
	}
	return style.Render(b.Inputs[i].View())
}
