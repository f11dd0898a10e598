package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/scoring"
)

func TestNew_FormatMismatch(t *testing.T) {
	_, err := New(speakingKind(), blanksRecord())
	assert.Error(t, err)

	_, err = New(speakingKind(), &exercise.Record{ID: 1})
	assert.Error(t, err)
}

func TestNewPlan(t *testing.T) {
	p := NewPlan(speakingKind(), speakingRecord())
	assert.Equal(t, []Phase{PhasePreparation, PhaseCountdown, PhaseRecording}, p.Phases)
	assert.Equal(t, PhasePreparation, p.Next(PhaseReady))
	assert.Equal(t, PhaseCountdown, p.Next(PhasePreparation))
	assert.Equal(t, PhaseCompleted, p.Next(PhaseRecording))

	rec := speakingRecord()
	rec.Budgets.Preparation = 10
	assert.Equal(t, 10, NewPlan(speakingKind(), rec).Budget(PhasePreparation))

	k := speakingKind()
	k.PreparationSeconds = 0
	p = NewPlan(k, speakingRecord())
	assert.False(t, p.Has(PhasePreparation))
	assert.Equal(t, PhaseCountdown, p.Next(PhaseReady))
}

func TestStep_FullSpeakingLifecycle(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())

	s, eff := mustStep(t, s, Start{})
	require.Equal(t, PhasePreparation, s.Phase)
	assert.Equal(t, 3, s.Remaining)
	timer := findEffect[StartTimer](t, eff)
	assert.Equal(t, s.TimerEpoch, timer.Epoch)
	assert.Equal(t, 3, timer.Seconds)

	s, eff = mustStep(t, s, ticks(s, 3)...)
	require.Equal(t, PhaseCountdown, s.Phase)
	assert.Equal(t, 3, s.Elapsed[PhasePreparation])
	assert.True(t, hasEffect[StartTimer](eff))

	// Countdown expiry waits for the microphone.
	s, eff = mustStep(t, s, ticks(s, 2)...)
	require.Equal(t, PhaseCountdown, s.Phase)
	assert.True(t, s.Acquiring)
	acq := findEffect[AcquireCapture](t, eff)
	assert.Equal(t, s.Generation, acq.Gen)

	s, eff = mustStep(t, s, CaptureStarted{Gen: s.Generation})
	require.Equal(t, PhaseRecording, s.Phase)
	assert.False(t, s.Acquiring)
	assert.Equal(t, 4, findEffect[StartTimer](t, eff).Seconds)

	s, eff = mustStep(t, s, ticks(s, 4)...)
	require.Equal(t, PhaseCompleted, s.Phase)
	assert.True(t, s.Finalizing)
	assert.True(t, hasEffect[StopCapture](eff))

	_, _, err := Step(s, Submit{})
	assert.ErrorIs(t, err, ErrNoResponse)

	s, eff = mustStep(t, s, CaptureFinished{Gen: s.Generation, Clip: testClip})
	assert.Same(t, testClip, s.Clip)
	assert.True(t, hasEffect[ReleaseCapture](eff))

	s, eff = mustStep(t, s, Submit{})
	require.Equal(t, PhaseSubmitted, s.Phase)
	assert.True(t, s.Evaluating)
	evalEff := findEffect[Evaluate](t, eff)
	assert.Same(t, testClip, evalEff.Submission.Clip)
	assert.Empty(t, evalEff.Submission.Text)

	res := scoring.NewRemote(72, 0, "Clear.", "the text")
	s, eff = mustStep(t, s, Evaluated{Gen: s.Generation, Result: res})
	assert.False(t, s.Evaluating)
	assert.Same(t, res, s.Result)
	assert.True(t, hasEffect[Settled](eff))

	_, _, err = Step(s, Submit{})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestStep_TickCountsDown(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	s, _ = mustStep(t, s, Start{})

	for want := 2; want >= 1; want-- {
		s, _ = mustStep(t, s, Tick{Epoch: s.TimerEpoch})
		assert.Equal(t, PhasePreparation, s.Phase)
		assert.Equal(t, want, s.Remaining)
	}
}

func TestStep_StaleTickIgnored(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	s, _ = mustStep(t, s, Start{})
	oldEpoch := s.TimerEpoch
	s, _ = mustStep(t, s, Skip{})
	require.Equal(t, PhaseCountdown, s.Phase)

	next, eff, err := Step(s, Tick{Epoch: oldEpoch})
	require.NoError(t, err)
	assert.Empty(t, eff)
	assert.Equal(t, s, next)
}

func TestStep_Skip(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())

	_, _, err := Step(s, Skip{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ = mustStep(t, s, Start{}, Skip{})
	assert.Equal(t, PhaseCountdown, s.Phase)

	s, eff := mustStep(t, s, Skip{})
	assert.True(t, s.Acquiring)
	assert.True(t, hasEffect[AcquireCapture](eff))

	// No skipping while the device opens.
	_, _, err = Step(s, Skip{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStep_CaptureDeniedBlocks(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	s, _ = mustStep(t, s, Start{}, Skip{}, Skip{})
	require.True(t, s.Acquiring)

	s, _ = mustStep(t, s, CaptureDenied{Gen: s.Generation, Err: errors.New("permission denied")})
	assert.True(t, s.Blocked)
	assert.Contains(t, s.Warning, "permission denied")
	assert.Equal(t, PhaseCountdown, s.Phase)

	_, _, err := Step(s, Stop{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, _, err = Step(s, Skip{})
	assert.ErrorIs(t, err, ErrBlocked)

	s, eff := mustStep(t, s, RetryCapture{})
	assert.True(t, s.Acquiring)
	assert.True(t, s.Blocked, "stays blocked until capture starts")
	assert.True(t, hasEffect[AcquireCapture](eff))

	_, _, err = Step(s, RetryCapture{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ = mustStep(t, s, CaptureStarted{Gen: s.Generation})
	assert.False(t, s.Blocked)
	assert.Empty(t, s.Warning)
	assert.Equal(t, PhaseRecording, s.Phase)
}

func TestStep_RetryCaptureRequiresBlocked(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	_, _, err := Step(s, RetryCapture{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStep_FillBlanks(t *testing.T) {
	s := newState(t, blanksKind(), blanksRecord())

	_, _, err := Step(s, Answer{Values: []string{"fox"}})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, eff := mustStep(t, s, Start{})
	require.Equal(t, PhaseRecording, s.Phase)
	assert.Equal(t, "https://example.com/fox.mp3", findEffect[PlayAudio](t, eff).URL)
	assert.Equal(t, 5, s.Remaining)

	values := []string{"Fox ", "wall"}
	s, _ = mustStep(t, s, Answer{Values: values})
	values[0] = "mutated"
	assert.Equal(t, "Fox ", s.Answers[0])

	s, eff = mustStep(t, s, Submit{})
	require.Equal(t, PhaseSubmitted, s.Phase)
	require.NotNil(t, s.Result)
	assert.Equal(t, 1, s.Result.Correct)
	assert.Equal(t, 2, s.Result.Total)
	assert.InDelta(t, 50.0, s.Result.Percent, 0.001)
	assert.True(t, hasEffect[StopTimer](eff))
	assert.True(t, hasEffect[Settled](eff))
	assert.False(t, hasEffect[Evaluate](eff))

	_, _, err = Step(s, Answer{Values: []string{"fox", "fence"}})
	assert.ErrorIs(t, err, ErrInputLocked)
}

func TestStep_TimeoutLocksInput(t *testing.T) {
	s := newState(t, blanksKind(), blanksRecord())
	s, _ = mustStep(t, s, Start{}, Answer{Values: []string{"fox", "fence"}})
	s, _ = mustStep(t, s, ticks(s, 5)...)
	require.Equal(t, PhaseCompleted, s.Phase)

	_, _, err := Step(s, Answer{Values: []string{"x"}})
	assert.ErrorIs(t, err, ErrInputLocked)

	s, _ = mustStep(t, s, Submit{})
	assert.InDelta(t, 100.0, s.Result.Percent, 0.001)
}

func TestStep_BlankObjectiveSubmitScoresZero(t *testing.T) {
	s := newState(t, blanksKind(), blanksRecord())
	s, _ = mustStep(t, s, Start{}, Stop{}, Submit{})
	require.NotNil(t, s.Result)
	assert.Zero(t, s.Result.Percent)
}

func TestStep_OpenText(t *testing.T) {
	s := newState(t, essayKind(), essayRecord())
	s, eff := mustStep(t, s, Start{})
	require.Equal(t, PhaseRecording, s.Phase)
	assert.Zero(t, s.Remaining, "untimed")
	assert.True(t, hasEffect[StopTimer](eff))

	_, _, err := Step(s, Submit{})
	assert.ErrorIs(t, err, ErrNoResponse)

	s, _ = mustStep(t, s, Answer{Values: []string{"  Parks make cities livable.  "}})
	s, eff = mustStep(t, s, Submit{})
	require.Equal(t, PhaseSubmitted, s.Phase)
	sub := findEffect[Evaluate](t, eff).Submission
	assert.Equal(t, "Parks make cities livable.", sub.Text)
	assert.Nil(t, sub.Clip)

	s, eff = mustStep(t, s, EvaluationFailed{Gen: s.Generation, Err: errors.New("timeout")})
	assert.Nil(t, s.Result)
	assert.Equal(t, PhaseSubmitted, s.Phase)
	assert.Contains(t, s.Notice, "timeout")
	assert.True(t, hasEffect[Settled](eff))

	s, _ = mustStep(t, s, DismissNotice{})
	assert.Empty(t, s.Notice)
}

func TestStep_SubmitWhileRecordingCapture(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	s, _ = mustStep(t, s, Start{}, Skip{}, Skip{})
	s, _ = mustStep(t, s, CaptureStarted{Gen: s.Generation})

	_, _, err := Step(s, Submit{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, eff := mustStep(t, s, Stop{})
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.True(t, hasEffect[StopCapture](eff))
}

func TestStep_CaptureFailed(t *testing.T) {
	s := newState(t, speakingKind(), speakingRecord())
	s, _ = mustStep(t, s, Start{}, Skip{}, Skip{})
	s, _ = mustStep(t, s, CaptureStarted{Gen: s.Generation}, Stop{})

	s, eff := mustStep(t, s, CaptureFailed{Gen: s.Generation, Err: errors.New("disk full")})
	assert.False(t, s.Finalizing)
	assert.Nil(t, s.Clip)
	assert.Contains(t, s.Notice, "disk full")
	assert.True(t, hasEffect[ReleaseCapture](eff))

	_, _, err := Step(s, Submit{})
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestStep_RestartFromEveryPhase(t *testing.T) {
	type setup func(t *testing.T) State

	speaking := func(events ...Event) setup {
		return func(t *testing.T) State {
			s := newState(t, speakingKind(), speakingRecord())
			for _, ev := range events {
				s, _ = mustStep(t, s, ev)
			}
			return s
		}
	}
	recording := func(t *testing.T) State {
		s := speaking(Start{}, Skip{}, Skip{})(t)
		s, _ = mustStep(t, s, CaptureStarted{Gen: s.Generation})
		return s
	}
	completed := func(t *testing.T) State {
		s := recording(t)
		s, _ = mustStep(t, s, Stop{})
		s, _ = mustStep(t, s, CaptureFinished{Gen: s.Generation, Clip: testClip})
		return s
	}
	submitted := func(t *testing.T) State {
		s := completed(t)
		s, _ = mustStep(t, s, Submit{})
		s, _ = mustStep(t, s, Evaluated{Gen: s.Generation, Result: scoring.NewRemote(80, 0, "", "")})
		return s
	}

	tests := []struct {
		name  string
		setup setup
		phase Phase
	}{
		{"ready", speaking(), PhaseReady},
		{"preparation", speaking(Start{}), PhasePreparation},
		{"countdown", speaking(Start{}, Skip{}), PhaseCountdown},
		{"recording", recording, PhaseRecording},
		{"completed", completed, PhaseCompleted},
		{"submitted", submitted, PhaseSubmitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setup(t)
			require.Equal(t, tt.phase, s.Phase)

			next, eff := mustStep(t, s, Restart{})
			assert.Equal(t, PhaseReady, next.Phase)
			assert.Equal(t, s.Generation+1, next.Generation)
			assert.Greater(t, next.TimerEpoch, s.TimerEpoch)
			assert.Zero(t, next.Remaining)
			assert.Nil(t, next.Clip)
			assert.Nil(t, next.Result)
			assert.Nil(t, next.Answers)
			assert.False(t, next.Evaluating)
			assert.False(t, next.Finalizing)
			assert.Equal(t, [numPhases]int{}, next.Elapsed)
			assert.True(t, hasEffect[StopTimer](eff))
			assert.True(t, hasEffect[ReleaseCapture](eff))
		})
	}
}

func TestStep_StaleAsyncResultsIgnored(t *testing.T) {
	s := newState(t, essayKind(), essayRecord())
	s, _ = mustStep(t, s, Start{}, Answer{Values: []string{"text"}}, Submit{})
	oldGen := s.Generation

	s, _ = mustStep(t, s, Restart{})
	require.Equal(t, PhaseReady, s.Phase)

	stale := []Event{
		Evaluated{Gen: oldGen, Result: scoring.NewRemote(90, 0, "", "")},
		EvaluationFailed{Gen: oldGen, Err: errors.New("late")},
		CaptureStarted{Gen: oldGen},
		CaptureDenied{Gen: oldGen, Err: errors.New("late")},
		CaptureFinished{Gen: oldGen, Clip: testClip},
		CaptureFailed{Gen: oldGen, Err: errors.New("late")},
	}
	for _, ev := range stale {
		next, eff, err := Step(s, ev)
		require.NoError(t, err)
		assert.Empty(t, eff)
		assert.Equal(t, s, next, "%T", ev)
	}
}

func TestStep_InvalidTransitions(t *testing.T) {
	s := newState(t, essayKind(), essayRecord())

	tests := []struct {
		name string
		ev   Event
		want error
	}{
		{"stop while ready", Stop{}, ErrInvalidTransition},
		{"submit while ready", Submit{}, ErrInvalidTransition},
		{"answer while ready", Answer{Values: []string{"x"}}, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, eff, err := Step(s, tt.ev)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, s, next)
			assert.Empty(t, eff)
		})
	}

	s, _ = mustStep(t, s, Start{})
	_, _, err := Step(s, Start{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuildSummary(t *testing.T) {
	s := newState(t, blanksKind(), blanksRecord())
	s, _ = mustStep(t, s, Start{}, Answer{Values: []string{"fox", "fence"}})
	s, _ = mustStep(t, s, Tick{Epoch: s.TimerEpoch}, Tick{Epoch: s.TimerEpoch})
	s, _ = mustStep(t, s, Submit{})

	sum := BuildSummary(s)
	assert.Equal(t, "listening/fill-blanks#2", sum.Key)
	assert.True(t, sum.Scored)
	assert.Equal(t, 2, sum.Correct)
	assert.InDelta(t, 100.0, sum.Percent, 0.001)
	assert.Equal(t, "2s", sum.Elapsed.String())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "recording", PhaseRecording.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
