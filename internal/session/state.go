// Package session drives one exercise through its phase lifecycle.
//
// Step is a pure transition function over State. Controller runs it on a
// single goroutine and carries out the returned effects: timers, capture,
// playback and evaluation.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/scoring"
)

var (
	ErrInvalidTransition = errors.New("session: invalid transition")
	ErrAlreadySubmitted  = errors.New("session: already submitted")
	ErrInputLocked       = errors.New("session: input is locked")
	ErrNoResponse        = errors.New("session: no response to submit")
	ErrBlocked           = errors.New("session: capture unavailable, retry permission")
)

// Phase is a step of the exercise lifecycle.
type Phase int

const (
	PhaseReady       Phase = iota // Waiting for the learner to start
	PhasePreparation              // Reading or thinking time
	PhaseCountdown                // Short lead-in before the response
	PhaseRecording                // Recording or answering
	PhaseCompleted                // Response frozen, not yet submitted
	PhaseSubmitted                // Scored or handed to the evaluator

	numPhases
)

var phaseNames = [numPhases]string{"ready", "preparation", "countdown", "recording", "completed", "submitted"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// State is the full session state. Values are treated as immutable: Step
// returns a modified copy and never writes through shared slices.
type State struct {
	// Plan is fixed for the life of the session.
	Plan *Plan

	Phase Phase

	// Remaining is the number of seconds left in the current timed phase.
	Remaining int

	// Elapsed counts ticks spent in each phase.
	Elapsed [numPhases]int

	// TimerEpoch is bumped whenever a timer starts or is cancelled.
	TimerEpoch int

	// Generation is bumped on restart. Async results from an older
	// generation are discarded.
	Generation int

	// Answers holds typed answers: one per blank, the selected options, or
	// a single entry with free text.
	Answers []string

	// Clip is the finished recording for capture kinds.
	Clip *capture.Clip

	// Acquiring is set while the capture device is being opened.
	Acquiring bool

	// Blocked is set when capture was denied. Warning explains why and
	// persists until capture succeeds.
	Blocked bool
	Warning string

	// Finalizing is set between stopping capture and receiving the clip.
	Finalizing bool

	Evaluating bool

	// Notice is a transient, dismissable failure message.
	Notice string

	Result *scoring.Result
}

// New creates a Ready session for rec.
func New(kind exercise.Kind, rec *exercise.Record) (State, error) {
	if rec == nil || rec.Content == nil {
		return State{}, fmt.Errorf("session: record has no content")
	}
	if rec.Content.Format() != kind.Format {
		return State{}, fmt.Errorf("session: record %s is %s, kind %s expects %s",
			rec.Key(), rec.Content.Format(), kind.ID, kind.Format)
	}
	return State{Plan: NewPlan(kind, rec), Phase: PhaseReady}, nil
}

// Kind is shorthand for s.Plan.Kind.
func (s State) Kind() exercise.Kind {
	return s.Plan.Kind
}

// Submitted reports whether the response has been submitted.
func (s State) Submitted() bool {
	return s.Phase == PhaseSubmitted
}

// Timed reports whether the current phase has a running countdown.
func (s State) Timed() bool {
	return s.Remaining > 0
}

// Text returns free-text answers joined into one response.
func (s State) Text() string {
	return strings.TrimSpace(strings.Join(s.Answers, "\n"))
}

// HasResponse reports whether there is something worth submitting.
// Objective formats may be submitted blank and score zero.
func (s State) HasResponse() bool {
	k := s.Kind()
	switch {
	case k.CaptureRequired:
		return s.Clip != nil
	case k.Format.Objective():
		return true
	}
	return s.Text() != ""
}

// Accepting reports whether typed answers are currently accepted.
func (s State) Accepting() bool {
	return s.Phase == PhaseRecording && !s.Kind().CaptureRequired
}
