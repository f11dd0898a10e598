package session

import (
	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/evaluate"
	"github.com/abhisek/langdrill/internal/scoring"
)

// Event is an input to Step.
type Event interface{ isEvent() }

// Learner actions.
type (
	Start         struct{}
	Skip          struct{}
	Stop          struct{}
	Submit        struct{}
	Restart       struct{}
	RetryCapture  struct{}
	DismissNotice struct{}

	// Answer replaces the typed answers.
	Answer struct{ Values []string }
)

// Tick is one elapsed second of the timer started with Epoch.
type Tick struct{ Epoch int }

// Async completions, tagged with the generation that requested them.
type (
	CaptureStarted struct{ Gen int }
	CaptureDenied  struct {
		Gen int
		Err error
	}
	CaptureFinished struct {
		Gen  int
		Clip *capture.Clip
	}
	CaptureFailed struct {
		Gen int
		Err error
	}
	Evaluated struct {
		Gen    int
		Result *scoring.Result
	}
	EvaluationFailed struct {
		Gen int
		Err error
	}
)

func (Start) isEvent()            {}
func (Skip) isEvent()             {}
func (Stop) isEvent()             {}
func (Submit) isEvent()           {}
func (Restart) isEvent()          {}
func (RetryCapture) isEvent()     {}
func (DismissNotice) isEvent()    {}
func (Answer) isEvent()           {}
func (Tick) isEvent()             {}
func (CaptureStarted) isEvent()   {}
func (CaptureDenied) isEvent()    {}
func (CaptureFinished) isEvent()  {}
func (CaptureFailed) isEvent()    {}
func (Evaluated) isEvent()        {}
func (EvaluationFailed) isEvent() {}

// Effect is a side effect requested by Step for the runtime to perform.
type Effect interface{ isEffect() }

type (
	// StartTimer replaces any running timer with a one-second ticker.
	StartTimer struct {
		Epoch   int
		Seconds int
	}
	StopTimer struct{}

	PlayAudio struct{ URL string }

	// AcquireCapture opens the device and starts recording.
	AcquireCapture struct{ Gen int }
	// StopCapture stops recording and materializes the clip.
	StopCapture    struct{ Gen int }
	ReleaseCapture struct{}

	Evaluate struct {
		Gen        int
		Submission *evaluate.Submission
	}

	// Settled means the submission has its final result, or has none.
	Settled struct{ Gen int }
)

func (StartTimer) isEffect()     {}
func (StopTimer) isEffect()      {}
func (PlayAudio) isEffect()      {}
func (AcquireCapture) isEffect() {}
func (StopCapture) isEffect()    {}
func (ReleaseCapture) isEffect() {}
func (Evaluate) isEffect()       {}
func (Settled) isEffect()        {}
