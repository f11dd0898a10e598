// Package practice is the screen for answering a single exercise record.
// It renders the snapshots of a session.Controller and turns keys into
// session events.
package practice

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/evaluate"
	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/abhisek/langdrill/internal/journal"
	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/session"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/layout"
)

// Env holds what a practice screen needs from the application.
type Env struct {
	Catalog   *fixture.Catalog
	Evaluator evaluate.Evaluator
	Player    capture.Player
	Journal   *journal.Journal
	Logger    *logger.Logger

	// NewRecorder returns a fresh recorder per screen. Nil means no
	// microphone is available.
	NewRecorder func() capture.Recorder

	// NewTicker replaces the real one-second timer in tests.
	NewTicker func(time.Duration) session.Ticker
}

// Screen drives one record.
type Screen struct {
	env  Env
	kind exercise.Kind
	rec  *exercise.Record

	ctrl   *session.Controller
	ctx    context.Context
	cancel context.CancelFunc

	state   session.State
	blanks  components.BlankInputs
	choices components.ChoiceList
	essay   textarea.Model

	// Last rejected action, cleared on the next state change.
	rejected string
}

var _ screen.Screen = (*Screen)(nil)

// New creates a practice screen for rec. The controller starts in Init.
func New(env Env, kind exercise.Kind, rec *exercise.Record) (*Screen, error) {
	st, err := session.New(kind, rec)
	if err != nil {
		return nil, err
	}
	if env.Logger == nil {
		env.Logger = logger.Nop()
	}

	opts := session.Options{
		Evaluator: env.Evaluator,
		Player:    env.Player,
		Logger:    env.Logger,
		NewTicker: env.NewTicker,
	}
	if env.NewRecorder != nil {
		opts.Recorder = env.NewRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	if env.Journal != nil {
		opts.OnSettled = env.Journal.OnSettled(ctx)
	}

	s := &Screen{
		env:    env,
		kind:   kind,
		rec:    rec,
		ctrl:   session.NewController(st, opts),
		ctx:    ctx,
		cancel: cancel,
		state:  st,
	}
	s.resetInputs()
	return s, nil
}

func (s *Screen) resetInputs() {
	switch c := s.rec.Content.(type) {
	case exercise.FillBlanks:
		ids := make([]int, len(c.Blanks))
		for i, b := range c.Blanks {
			ids[i] = b.ID
		}
		s.blanks = components.NewBlankInputs(c.Text, ids)
	case exercise.Choice:
		opts := make([]components.ChoiceOption, len(c.Options))
		for i, o := range c.Options {
			opts[i] = components.ChoiceOption{Label: o.Label, Text: o.Text}
		}
		s.choices = components.NewChoiceList(c.Stem, opts, c.Multi)
	case exercise.OpenResponse:
		if !c.Spoken {
			ta := textarea.New()
			ta.Placeholder = "Type your response..."
			ta.ShowLineNumbers = false
			ta.SetHeight(8)
			s.essay = ta
		}
	}
}

func (s *Screen) Init() tea.Cmd {
	go func() {
		if err := s.ctrl.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.env.Logger.Warn("session controller stopped", "error", err)
		}
	}()
	cmds := []tea.Cmd{waitForState(s.ctrl)}
	if s.kind.AutoStart {
		cmds = append(cmds, s.dispatch(session.Start{}))
	}
	return tea.Batch(cmds...)
}

// Close stops the controller, releasing any capture device.
func (s *Screen) Close() {
	s.cancel()
}

func (s *Screen) Title() string {
	return s.kind.Title
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		if msg.ctrl != s.ctrl || !msg.ok {
			return s, nil
		}
		s.apply(msg.state)
		return s, waitForState(s.ctrl)

	case rejectedMsg:
		if msg.ctrl == s.ctrl {
			s.rejected = describe(msg.err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.typing() && !s.isSpoken() {
		if _, ok := s.rec.Content.(exercise.OpenResponse); ok {
			var cmd tea.Cmd
			s.essay, cmd = s.essay.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

// apply takes a new snapshot and brings the inputs in line with it.
func (s *Screen) apply(next session.State) {
	prev := s.state
	s.state = next
	s.rejected = ""

	if next.Generation != prev.Generation {
		s.resetInputs()
	}

	if next.Phase == session.PhaseRecording && prev.Phase != session.PhaseRecording {
		if _, ok := s.rec.Content.(exercise.OpenResponse); ok && !s.isSpoken() {
			s.essay.Focus()
		}
	}

	if !next.Accepting() {
		s.lock()
	}
	if next.Result != nil {
		s.reveal(next)
	}
}

func (s *Screen) lock() {
	switch s.rec.Content.(type) {
	case exercise.FillBlanks:
		if !s.blanks.Locked {
			s.blanks = s.blanks.Lock()
		}
	case exercise.Choice:
		s.choices.Locked = true
	case exercise.OpenResponse:
		s.essay.Blur()
	}
}

func (s *Screen) reveal(st session.State) {
	switch c := s.rec.Content.(type) {
	case exercise.FillBlanks:
		byID := make(map[int]bool, len(st.Result.Blanks))
		for _, b := range st.Result.Blanks {
			byID[b.ID] = b.Correct
		}
		correct := make([]bool, len(c.Blanks))
		expected := make([]string, len(c.Blanks))
		for i, b := range c.Blanks {
			correct[i] = byID[b.ID]
			expected[i] = b.Answer
		}
		s.blanks = s.blanks.Reveal(correct, expected)
	case exercise.Choice:
		s.choices = s.choices.Reveal(c.Correct)
	}
}

func (s *Screen) isSpoken() bool {
	return s.kind.CaptureRequired
}

// typing reports whether keys go to an answer input rather than commands.
func (s *Screen) typing() bool {
	return s.state.Accepting()
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+r":
		return s, s.dispatch(session.Restart{})
	}

	if s.typing() {
		return s.handleAnswerKey(msg)
	}

	st := s.state
	switch key {
	case "r":
		return s, s.dispatch(session.Restart{})
	case "p":
		if st.Blocked {
			return s, s.dispatch(session.RetryCapture{})
		}
	case "x":
		if st.Notice != "" {
			return s, s.dispatch(session.DismissNotice{})
		}
	}

	switch st.Phase {
	case session.PhaseReady:
		if key == "enter" || key == "space" || key == " " {
			return s, s.dispatch(session.Start{})
		}
	case session.PhasePreparation, session.PhaseCountdown:
		if key == "s" || key == "enter" {
			return s, s.dispatch(session.Skip{})
		}
	case session.PhaseRecording:
		if key == "enter" || key == "s" {
			return s, s.dispatch(session.Stop{})
		}
	case session.PhaseCompleted:
		if key == "enter" {
			return s, s.dispatch(session.Submit{})
		}
	case session.PhaseSubmitted:
		if key == "n" && !st.Evaluating {
			return s, s.next()
		}
	}
	return s, nil
}

func (s *Screen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.rec.Content.(type) {
	case exercise.FillBlanks:
		if key == "enter" {
			return s, s.dispatch(session.Submit{})
		}
		var (
			cmd     tea.Cmd
			changed bool
		)
		s.blanks, cmd, changed = s.blanks.Update(msg)
		if changed {
			s.ctrl.Send(session.Answer{Values: s.blanks.Values()})
		}
		return s, cmd

	case exercise.Choice:
		if key == "enter" {
			return s, s.dispatch(session.Submit{})
		}
		var changed bool
		s.choices, changed = s.choices.Update(msg)
		if changed {
			s.ctrl.Send(session.Answer{Values: s.choices.Values()})
		}
		return s, nil

	case exercise.OpenResponse:
		if key == "ctrl+s" {
			return s, s.dispatch(session.Submit{})
		}
		before := s.essay.Value()
		var cmd tea.Cmd
		s.essay, cmd = s.essay.Update(msg)
		if v := s.essay.Value(); v != before {
			s.ctrl.Send(session.Answer{Values: []string{v}})
		}
		return s, cmd
	}
	return s, nil
}

// dispatch sends ev and reports a rejection back to the screen.
func (s *Screen) dispatch(ev session.Event) tea.Cmd {
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		if err := ctrl.Dispatch(ctx, ev); err != nil {
			return rejectedMsg{ctrl: ctrl, err: err}
		}
		return nil
	}
}

// next replaces this screen with the following record of the same kind.
func (s *Screen) next() tea.Cmd {
	if s.env.Catalog == nil {
		return nil
	}
	recs := s.env.Catalog.Records(s.kind.ID)
	if len(recs) == 0 {
		return nil
	}
	idx := 0
	for i, r := range recs {
		if r.ID == s.rec.ID {
			idx = (i + 1) % len(recs)
			break
		}
	}
	nextScreen, err := New(s.env, s.kind, recs[idx])
	if err != nil {
		s.rejected = err.Error()
		return nil
	}
	return router.Swap(nextScreen)
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrNoResponse):
		return "Nothing to submit yet."
	case errors.Is(err, session.ErrBlocked):
		return "Microphone unavailable. Press p to retry."
	case errors.Is(err, session.ErrInputLocked):
		return "Time is up, answers are locked."
	case errors.Is(err, session.ErrAlreadySubmitted):
		return "Already submitted. Press r to try again."
	case errors.Is(err, session.ErrStopped), errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, session.ErrInvalidTransition):
		return ""
	}
	return err.Error()
}

// KeyHints implements screen.KeyHintProvider.
func (s *Screen) KeyHints() []layout.KeyHint {
	st := s.state
	var hints []layout.KeyHint
	switch st.Phase {
	case session.PhaseReady:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Start"})
	case session.PhasePreparation, session.PhaseCountdown:
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Skip"})
	case session.PhaseRecording:
		switch s.rec.Content.(type) {
		case exercise.FillBlanks:
			hints = append(hints,
				layout.KeyHint{Key: "Tab", Description: "Next gap"},
				layout.KeyHint{Key: "Enter", Description: "Submit"})
		case exercise.Choice:
			hints = append(hints,
				layout.KeyHint{Key: "↑↓", Description: "Move"},
				layout.KeyHint{Key: "Space", Description: "Choose"},
				layout.KeyHint{Key: "Enter", Description: "Submit"})
		default:
			if s.isSpoken() {
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Stop"})
			} else {
				hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Submit"})
			}
		}
	case session.PhaseCompleted:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Submit"})
	case session.PhaseSubmitted:
		hints = append(hints, layout.KeyHint{Key: "n", Description: "Next"})
	}
	if st.Blocked {
		hints = append(hints, layout.KeyHint{Key: "p", Description: "Retry mic"})
	}
	if st.Notice != "" {
		hints = append(hints, layout.KeyHint{Key: "x", Description: "Dismiss"})
	}
	restart := "r"
	if s.typing() {
		restart = "Ctrl+R"
	}
	return append(hints,
		layout.KeyHint{Key: restart, Description: "Restart"},
		layout.KeyHint{Key: "Esc", Description: "Back"})
}
