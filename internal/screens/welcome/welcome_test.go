package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
)

type homeStub struct{}

func (h *homeStub) Init() tea.Cmd                           { return nil }
func (h *homeStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (h *homeStub) View(int, int) string                    { return "home" }
func (h *homeStub) Title() string                           { return "Home" }

func newWelcome() (*WelcomeScreen, *int) {
	built := 0
	return New(func() screen.Screen {
		built++
		return &homeStub{}
	}), &built
}

func advance(w *WelcomeScreen, frames int) {
	for range frames {
		w.Update(frameMsg{})
	}
}

func TestStages(t *testing.T) {
	w, _ := newWelcome()
	assert.Equal(t, stageMic, w.stage())
	assert.NotContains(t, w.View(80, 40), "))")

	advance(w, 5)
	assert.Equal(t, stageListening, w.stage())
	assert.Contains(t, w.View(80, 40), "))")
	assert.NotContains(t, w.View(80, 40), tagline)

	advance(w, 10)
	assert.Equal(t, stageBanner, w.stage())
	view := w.View(80, 40)
	assert.Contains(t, view, tagline)
	assert.Contains(t, view, "skip preparation time")
	assert.Contains(t, view, "██")
}

func TestCompactBanner(t *testing.T) {
	w, _ := newWelcome()
	advance(w, 20)
	assert.Contains(t, w.View(36, 40), "L A N G D R I L L")
}

func TestKeyLeavesOnce(t *testing.T) {
	w, built := newWelcome()
	advance(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &homeStub{}, msg.Screen)

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'x'})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *built)
}

func TestNoAutoAdvance(t *testing.T) {
	w, built := newWelcome()
	advance(w, 100)
	assert.Zero(t, *built)
	assert.True(t, strings.Contains(w.View(80, 40), "press any key"))
	assert.Empty(t, w.Title())
}
