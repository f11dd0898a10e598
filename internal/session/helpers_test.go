package session

import (
	"testing"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/exercise"
)

func speakingKind() exercise.Kind {
	return exercise.Kind{
		ID:      "speaking/read-aloud",
		Section: exercise.SectionSpeaking,
		Format:  exercise.FormatOpenSpeech,
		Stages: []exercise.Stage{
			exercise.StagePreparation, exercise.StageCountdown, exercise.StageRecording,
		},
		PreparationSeconds: 3,
		CountdownSeconds:   2,
		ResponseSeconds:    4,
		CaptureRequired:    true,
	}
}

func speakingRecord() *exercise.Record {
	return &exercise.Record{
		ID:      1,
		KindID:  "speaking/read-aloud",
		Prompt:  "Read the text aloud.",
		Content: exercise.OpenResponse{Prompt: "Read the text aloud.", Spoken: true},
	}
}

func blanksKind() exercise.Kind {
	return exercise.Kind{
		ID:              "listening/fill-blanks",
		Section:         exercise.SectionListening,
		Format:          exercise.FormatFillBlanks,
		Stages:          []exercise.Stage{exercise.StageRecording},
		ResponseSeconds: 5,
		PlaysAudio:      true,
	}
}

func blanksRecord() *exercise.Record {
	return &exercise.Record{
		ID:       2,
		KindID:   "listening/fill-blanks",
		Prompt:   "The [1] jumped over the [2]",
		AudioURL: "https://example.com/fox.mp3",
		Content: exercise.FillBlanks{
			Text:   "The [1] jumped over the [2]",
			Blanks: []exercise.Blank{{ID: 1, Answer: "fox"}, {ID: 2, Answer: "fence"}},
		},
	}
}

func essayKind() exercise.Kind {
	return exercise.Kind{
		ID:       "writing/essay",
		Section:  exercise.SectionWriting,
		Format:   exercise.FormatOpenText,
		Stages:   []exercise.Stage{exercise.StageRecording},
		MaxScore: 15,
	}
}

func essayRecord() *exercise.Record {
	return &exercise.Record{
		ID:      3,
		KindID:  "writing/essay",
		Prompt:  "Do cities need more parks?",
		Content: exercise.OpenResponse{Prompt: "Do cities need more parks?"},
	}
}

func newState(t *testing.T, k exercise.Kind, rec *exercise.Record) State {
	t.Helper()
	s, err := New(k, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// mustStep applies events in order and returns the final state and the
// effects of the last step.
func mustStep(t *testing.T, s State, events ...Event) (State, []Effect) {
	t.Helper()
	var effects []Effect
	for _, ev := range events {
		var err error
		s, effects, err = Step(s, ev)
		if err != nil {
			t.Fatalf("Step(%T) in %s: %v", ev, s.Phase, err)
		}
	}
	return s, effects
}

// ticks returns n ticks for the current timer of s.
func ticks(s State, n int) []Event {
	out := make([]Event, n)
	for i := range out {
		out[i] = Tick{Epoch: s.TimerEpoch}
	}
	return out
}

func hasEffect[T Effect](effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(T); ok {
			return true
		}
	}
	return false
}

func findEffect[T Effect](t *testing.T, effects []Effect) T {
	t.Helper()
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("effect %T not found in %#v", zero, effects)
	return zero
}

var testClip = &capture.Clip{Data: []byte("RIFF"), MIMEType: "audio/wav", Name: "take.wav"}
