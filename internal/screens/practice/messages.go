package practice

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/session"
)

// stateMsg carries a snapshot from the controller. ok is false once the
// controller has stopped.
type stateMsg struct {
	ctrl  *session.Controller
	state session.State
	ok    bool
}

// rejectedMsg reports an action the session refused.
type rejectedMsg struct {
	ctrl *session.Controller
	err  error
}

// waitForState blocks on the next controller snapshot.
func waitForState(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ctrl.Updates()
		return stateMsg{ctrl: ctrl, state: s, ok: ok}
	}
}
