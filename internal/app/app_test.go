package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screens/home"
	"github.com/abhisek/langdrill/internal/screens/practice"
	"github.com/abhisek/langdrill/internal/screens/welcome"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	reg, err := exercise.Builtin()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cat, err := fixture.LoadEmbedded(reg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return Options{Home: home.Deps{Practice: practice.Env{Catalog: cat}}}
}

func TestNewAppModel_InitialScreen(t *testing.T) {
	opts := testOptions(t)
	if _, ok := newAppModel(opts).router.Active().(*home.HomeScreen); !ok {
		t.Error("expected home screen")
	}

	opts.FirstRun = true
	if _, ok := newAppModel(opts).router.Active().(*welcome.WelcomeScreen); !ok {
		t.Error("expected welcome screen on first run")
	}
}

func TestAppModel_EscPopsOnlyAboveHome(t *testing.T) {
	m := newAppModel(testOptions(t))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc on home should do nothing")
	}

	m.router.Push(home.New(home.Deps{}))
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestAppModel_ViewWaitsForSize(t *testing.T) {
	m := newAppModel(testOptions(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	v := updated.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}
