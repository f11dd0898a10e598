package practice

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/abhisek/langdrill/internal/journal"
	"github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/session"
)

const choiceFixture = `[
  {"id": 1, "title": "Parks", "question": "Why do cities build parks?###A) Noise###B) Health###C) Traffic", "answer": "B"},
  {"id": 2, "title": "Rivers", "question": "What do rivers carry?###A) Sediment###B) Sand dunes###C) Glaciers", "answer": "A"}
]`

func choiceKind() exercise.Kind {
	return exercise.Kind{
		ID:      "reading/multiple-choice-single",
		Section: exercise.SectionReading,
		Title:   "Multiple Choice, Single Answer",
		Format:  exercise.FormatSingleChoice,
		Stages:  []exercise.Stage{exercise.StageRecording},
	}
}

func essayKind() exercise.Kind {
	return exercise.Kind{
		ID:       "writing/essay",
		Section:  exercise.SectionWriting,
		Title:    "Essay",
		Format:   exercise.FormatOpenText,
		Stages:   []exercise.Stage{exercise.StageRecording},
		MaxScore: 15,
	}
}

func testCatalog(t *testing.T) *fixture.Catalog {
	t.Helper()
	reg, err := exercise.NewRegistry([]exercise.Kind{choiceKind()})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cat, err := fixture.Load(reg, fstest.MapFS{
		"reading/multiple-choice-single.json": {Data: []byte(choiceFixture)},
	})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func startScreen(t *testing.T, env Env, kind exercise.Kind, rec *exercise.Record) *Screen {
	t.Helper()
	s, err := New(env, kind, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Init()
	t.Cleanup(s.Close)
	return s
}

// run executes cmd and feeds its message back, as the tea runtime would.
func run(t *testing.T, s *Screen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		s.Update(msg)
	}
}

// waitFor pumps controller snapshots into the screen until cond holds.
func waitFor(t *testing.T, s *Screen, what string, cond func(session.State) bool) {
	t.Helper()
	if cond(s.state) {
		return
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-s.ctrl.Updates():
			if !ok {
				t.Fatalf("controller stopped while waiting for %s", what)
			}
			s.Update(stateMsg{ctrl: s.ctrl, state: st, ok: true})
			if cond(s.state) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s (phase %s)", what, s.state.Phase)
		}
	}
}

func TestPractice_ChoiceFlow(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemoryBlobs(), nil)
	env := Env{Catalog: cat, Journal: &journal.Journal{Tracker: tracker}}

	rec, _ := cat.Record("reading/multiple-choice-single", 1)
	s := startScreen(t, env, choiceKind(), rec)

	if s.Title() != "Multiple Choice, Single Answer" {
		t.Errorf("unexpected title %q", s.Title())
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "recording", func(st session.State) bool { return st.Phase == session.PhaseRecording })

	s.Update(keyPress('b'))
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "result", func(st session.State) bool { return st.Result != nil })

	if s.state.Result.Percent != 100 {
		t.Errorf("expected 100%%, got %v", s.state.Result.Percent)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "PASS") {
		t.Errorf("expected PASS in view:\n%s", view)
	}

	// OnSettled runs on the controller goroutine before the snapshot is
	// published, so progress is already written.
	got, err := tracker.Get(ctx, "reading/multiple-choice-single")
	if err != nil {
		t.Fatalf("tracker: %v", err)
	}
	if got.Completed != 1 || got.Streak != 1 {
		t.Errorf("unexpected progress %+v", got)
	}
}

func TestPractice_NextReplacesScreen(t *testing.T) {
	cat := testCatalog(t)
	rec, _ := cat.Record("reading/multiple-choice-single", 2)
	s := startScreen(t, Env{Catalog: cat}, choiceKind(), rec)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "recording", func(st session.State) bool { return st.Phase == session.PhaseRecording })
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "submitted", func(st session.State) bool { return st.Phase == session.PhaseSubmitted })

	_, cmd = s.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("expected a command for next")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	next := msg.Screen.(*Screen)
	defer next.Close()
	if next.rec.ID != 1 {
		t.Errorf("expected wrap-around to record 1, got %d", next.rec.ID)
	}
}

func TestPractice_EmptySubmitRejected(t *testing.T) {
	rec := &exercise.Record{
		ID:      1,
		KindID:  "writing/essay",
		Prompt:  "Discuss.",
		Content: exercise.OpenResponse{Prompt: "Discuss."},
	}
	s := startScreen(t, Env{}, essayKind(), rec)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "recording", func(st session.State) bool { return st.Phase == session.PhaseRecording })

	_, cmd = s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	run(t, s, cmd)
	if s.rejected == "" {
		t.Error("expected empty submission to be rejected")
	}

	// Letters go to the essay while answering.
	s.Update(keyPress('r'))
	if s.state.Generation != 0 {
		t.Error("typing r must not restart")
	}
	if s.essay.Value() != "r" {
		t.Errorf("expected essay to receive the key, got %q", s.essay.Value())
	}
}

func TestPractice_RestartResetsInputs(t *testing.T) {
	cat := testCatalog(t)
	rec, _ := cat.Record("reading/multiple-choice-single", 1)
	s := startScreen(t, Env{Catalog: cat}, choiceKind(), rec)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	waitFor(t, s, "recording", func(st session.State) bool { return st.Phase == session.PhaseRecording })
	s.Update(keyPress('a'))
	if got := s.choices.Values(); len(got) != 1 {
		t.Fatalf("expected one choice, got %v", got)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	run(t, s, cmd)
	waitFor(t, s, "restart", func(st session.State) bool { return st.Generation == 1 })

	if s.state.Phase != session.PhaseReady {
		t.Errorf("expected ready after restart, got %s", s.state.Phase)
	}
	if got := s.choices.Values(); len(got) != 0 {
		t.Errorf("expected cleared choices, got %v", got)
	}
}

func TestPractice_CloseStopsController(t *testing.T) {
	cat := testCatalog(t)
	rec, _ := cat.Record("reading/multiple-choice-single", 1)
	s := startScreen(t, Env{Catalog: cat}, choiceKind(), rec)

	s.Close()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-s.ctrl.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("controller did not stop after Close")
		}
	}
}
