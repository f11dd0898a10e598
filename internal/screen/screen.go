// Package screen defines what the router stacks. A screen renders only its
// body; the app draws the header and footer around it.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/ui/layout"
)

type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown in the header. Empty hides it.
	Title() string
}

// Optional extras a screen may implement.
type (
	// KeyHintProvider replaces the generic footer hints.
	KeyHintProvider interface {
		KeyHints() []layout.KeyHint
	}

	// StatusProvider fills the right side of the header, e.g. a phase timer.
	StatusProvider interface {
		Status() string
	}

	// Closer releases what the screen holds, such as a running session
	// and its capture device, when the screen leaves the stack.
	Closer interface {
		Close()
	}
)

// ResumedMsg tells a screen it is on top again after the one above was
// popped.
type ResumedMsg struct{}
