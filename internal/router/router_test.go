package router

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/screen"
)

type fakeScreen struct {
	name   string
	inits  int
	closed int
	seen   []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd { s.inits++; return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return s.name }
func (s *fakeScreen) Title() string        { return s.name }
func (s *fakeScreen) Close()               { s.closed++ }

// stackNames lists the stack bottom to top.
func stackNames(r *Router) string {
	names := make([]string, len(r.stack))
	for i, s := range r.stack {
		names[i] = s.Title()
	}
	return strings.Join(names, ",")
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		cmds func(s map[string]*fakeScreen) []tea.Cmd
		want string
	}{
		{"open", func(s map[string]*fakeScreen) []tea.Cmd {
			return []tea.Cmd{Open(s["catalog"])}
		}, "home,catalog"},
		{"back", func(s map[string]*fakeScreen) []tea.Cmd {
			return []tea.Cmd{Open(s["catalog"]), Back()}
		}, "home"},
		{"back at root", func(map[string]*fakeScreen) []tea.Cmd {
			return []tea.Cmd{Back()}
		}, "home"},
		{"swap keeps depth", func(s map[string]*fakeScreen) []tea.Cmd {
			return []tea.Cmd{Open(s["catalog"]), Swap(s["practice"])}
		}, "home,practice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screens := map[string]*fakeScreen{}
			for _, n := range []string{"home", "catalog", "practice"} {
				screens[n] = &fakeScreen{name: n}
			}
			r := New(screens["home"])
			for _, cmd := range tt.cmds(screens) {
				r.Update(cmd())
			}
			if got := stackNames(r); got != tt.want {
				t.Errorf("stack = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPushRunsInit(t *testing.T) {
	r := New(&fakeScreen{name: "home"})
	next := &fakeScreen{name: "catalog"}
	r.Push(next)
	r.Replace(&fakeScreen{name: "practice"})
	if next.inits != 1 {
		t.Errorf("inits = %d, want 1", next.inits)
	}
	if next.closed != 1 {
		t.Errorf("replaced screen closed %d times, want 1", next.closed)
	}
}

func TestPopClosesAndResumes(t *testing.T) {
	home := &fakeScreen{name: "home"}
	practice := &fakeScreen{name: "practice"}
	r := New(home)
	r.Push(practice)

	cmd := r.Pop()
	if practice.closed != 1 {
		t.Errorf("popped screen closed %d times, want 1", practice.closed)
	}
	if cmd == nil {
		t.Fatal("expected a resume command")
	}
	r.Update(cmd())
	if len(home.seen) != 1 {
		t.Fatalf("home saw %d messages, want 1", len(home.seen))
	}
	if _, ok := home.seen[0].(screen.ResumedMsg); !ok {
		t.Errorf("home got %T, want ResumedMsg", home.seen[0])
	}
	if r.Pop() != nil {
		t.Error("popping the root should do nothing")
	}
}

func TestCloseAll(t *testing.T) {
	home := &fakeScreen{name: "home"}
	practice := &fakeScreen{name: "practice"}
	r := New(home)
	r.Push(practice)
	r.CloseAll()
	if home.closed != 1 || practice.closed != 1 {
		t.Errorf("closed home=%d practice=%d, want 1 each", home.closed, practice.closed)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &fakeScreen{name: "home"}
	r := New(home)
	r.Update(tea.KeyPressMsg{Code: 'j'})
	if len(home.seen) != 1 {
		t.Errorf("active screen saw %d messages, want 1", len(home.seen))
	}
	if r.View(80, 24) != "home" {
		t.Errorf("view = %q", r.View(80, 24))
	}
}
