package session

import (
	"fmt"
	"slices"

	"github.com/abhisek/langdrill/internal/evaluate"
	"github.com/abhisek/langdrill/internal/scoring"
)

// Step applies ev to s and returns the next state with the effects the
// runtime must perform. On error the returned state equals s and there
// are no effects. Stale ticks and async results are ignored without error.
func Step(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case Start:
		return start(s)
	case Tick:
		return tick(s, ev)
	case Skip:
		return skip(s)
	case Answer:
		return answer(s, ev)
	case Stop:
		return stop(s)
	case Submit:
		return submit(s)
	case Restart:
		return restart(s)
	case RetryCapture:
		return retryCapture(s)
	case DismissNotice:
		s.Notice = ""
		return s, nil, nil

	case CaptureStarted:
		if ev.Gen != s.Generation || !s.Acquiring {
			return s, nil, nil
		}
		s.Acquiring = false
		s.Blocked = false
		s.Warning = ""
		return enter(s, PhaseRecording)

	case CaptureDenied:
		if ev.Gen != s.Generation || !s.Acquiring {
			return s, nil, nil
		}
		s.Acquiring = false
		s.Blocked = true
		s.Warning = fmt.Sprintf("Microphone unavailable: %v. Press p to retry.", ev.Err)
		return s, nil, nil

	case CaptureFinished:
		if ev.Gen != s.Generation || !s.Finalizing {
			return s, nil, nil
		}
		s.Finalizing = false
		s.Clip = ev.Clip
		return s, []Effect{ReleaseCapture{}}, nil

	case CaptureFailed:
		if ev.Gen != s.Generation || !s.Finalizing {
			return s, nil, nil
		}
		s.Finalizing = false
		s.Notice = fmt.Sprintf("Recording failed: %v", ev.Err)
		return s, []Effect{ReleaseCapture{}}, nil

	case Evaluated:
		if ev.Gen != s.Generation || !s.Evaluating {
			return s, nil, nil
		}
		s.Evaluating = false
		s.Result = ev.Result
		return s, []Effect{Settled{Gen: s.Generation}}, nil

	case EvaluationFailed:
		if ev.Gen != s.Generation || !s.Evaluating {
			return s, nil, nil
		}
		s.Evaluating = false
		s.Notice = fmt.Sprintf("Evaluation failed: %v", ev.Err)
		return s, []Effect{Settled{Gen: s.Generation}}, nil
	}
	return s, nil, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func invalid(s State, what string) (State, []Effect, error) {
	return s, nil, fmt.Errorf("%w: %s during %s", ErrInvalidTransition, what, s.Phase)
}

// enter switches to phase ph and starts its timer when it has a budget.
func enter(s State, ph Phase) (State, []Effect, error) {
	s.Phase = ph
	s.TimerEpoch++
	s.Remaining = s.Plan.Budget(ph)
	if s.Remaining > 0 {
		return s, []Effect{StartTimer{Epoch: s.TimerEpoch, Seconds: s.Remaining}}, nil
	}
	return s, []Effect{StopTimer{}}, nil
}

// advance moves past the current pre-response phase. Capture kinds wait
// for the device before recording begins.
func advance(s State) (State, []Effect, error) {
	next := s.Plan.Next(s.Phase)
	if next != PhaseRecording || !s.Kind().CaptureRequired {
		return enter(s, next)
	}
	s.TimerEpoch++
	s.Remaining = 0
	s.Acquiring = true
	return s, []Effect{StopTimer{}, AcquireCapture{Gen: s.Generation}}, nil
}

func start(s State) (State, []Effect, error) {
	if s.Phase != PhaseReady {
		return invalid(s, "start")
	}
	if s.Blocked {
		return s, nil, ErrBlocked
	}
	if s.Acquiring {
		return invalid(s, "start while acquiring")
	}
	next, effects, err := advance(s)
	if err != nil {
		return s, nil, err
	}
	if url := s.Plan.Record.AudioURL; s.Kind().PlaysAudio && url != "" {
		effects = append(effects, PlayAudio{URL: url})
	}
	return next, effects, nil
}

func tick(s State, ev Tick) (State, []Effect, error) {
	if ev.Epoch != s.TimerEpoch || s.Remaining <= 0 {
		return s, nil, nil
	}
	s.Remaining--
	s.Elapsed[s.Phase]++
	if s.Remaining > 0 {
		return s, nil, nil
	}

	switch s.Phase {
	case PhasePreparation, PhaseCountdown:
		return advance(s)
	case PhaseRecording:
		return finish(s)
	}
	return s, nil, nil
}

func skip(s State) (State, []Effect, error) {
	if s.Phase != PhasePreparation && s.Phase != PhaseCountdown {
		return invalid(s, "skip")
	}
	if s.Blocked {
		return s, nil, ErrBlocked
	}
	if s.Acquiring {
		return invalid(s, "skip while acquiring")
	}
	return advance(s)
}

func answer(s State, ev Answer) (State, []Effect, error) {
	switch {
	case s.Phase == PhaseCompleted || s.Phase == PhaseSubmitted:
		return s, nil, ErrInputLocked
	case !s.Accepting():
		return invalid(s, "answer")
	}
	s.Answers = slices.Clone(ev.Values)
	return s, nil, nil
}

func stop(s State) (State, []Effect, error) {
	if s.Phase != PhaseRecording {
		return invalid(s, "stop")
	}
	return finish(s)
}

// finish freezes the response. Capture kinds receive their clip later
// through CaptureFinished.
func finish(s State) (State, []Effect, error) {
	s.Phase = PhaseCompleted
	s.TimerEpoch++
	s.Remaining = 0
	effects := []Effect{StopTimer{}}
	if s.Kind().CaptureRequired {
		s.Finalizing = true
		effects = append(effects, StopCapture{Gen: s.Generation})
	}
	return s, effects, nil
}

func submit(s State) (State, []Effect, error) {
	switch s.Phase {
	case PhaseSubmitted:
		return s, nil, ErrAlreadySubmitted
	case PhaseRecording:
		if s.Kind().CaptureRequired {
			return invalid(s, "submit")
		}
		// Passive formats finalize and submit in one action.
		done, effects, _ := finish(s)
		next, more, err := submitCompleted(done)
		if err != nil {
			return s, nil, err
		}
		return next, append(effects, more...), nil
	case PhaseCompleted:
		return submitCompleted(s)
	}
	return invalid(s, "submit")
}

func submitCompleted(s State) (State, []Effect, error) {
	if s.Finalizing || !s.HasResponse() {
		return s, nil, ErrNoResponse
	}

	k := s.Kind()
	if k.Format.Objective() {
		res, err := scoring.Score(s.Plan.Record.Content, s.Answers)
		if err != nil {
			return s, nil, err
		}
		s.Phase = PhaseSubmitted
		s.Result = res
		return s, []Effect{Settled{Gen: s.Generation}}, nil
	}

	s.Phase = PhaseSubmitted
	s.Evaluating = true
	sub := &evaluate.Submission{Kind: k, Record: s.Plan.Record, Clip: s.Clip}
	if !k.CaptureRequired {
		sub.Text = s.Text()
	}
	return s, []Effect{Evaluate{Gen: s.Generation, Submission: sub}}, nil
}

// restart discards everything but the plan and the counters.
func restart(s State) (State, []Effect, error) {
	next := State{
		Plan:       s.Plan,
		Phase:      PhaseReady,
		Generation: s.Generation + 1,
		TimerEpoch: s.TimerEpoch + 1,
	}
	return next, []Effect{StopTimer{}, ReleaseCapture{}}, nil
}

func retryCapture(s State) (State, []Effect, error) {
	if !s.Blocked || s.Acquiring {
		return invalid(s, "retry capture")
	}
	s.Acquiring = true
	return s, []Effect{AcquireCapture{Gen: s.Generation}}, nil
}
