// Package welcome is the first-run splash: a microphone that starts to
// "hear" something, then the banner and a short guide to the practice keys.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

const frameEvery = 100 * time.Millisecond

type stage int

const (
	stageMic stage = iota
	stageListening
	stageBanner
)

// stageAt is when each stage begins.
var stageAt = [...]time.Duration{
	stageMic:       0,
	stageListening: 500 * time.Millisecond,
	stageBanner:    1500 * time.Millisecond,
}

const mic = `   ╭─────╮
   │ ||| │
   │ ||| │
   ╰──┬──╯
  ╰───┼───╯
      │
   ───┴───`

const banner = `
 ██╗      █████╗ ███╗   ██╗ ██████╗
 ██║     ██╔══██╗████╗  ██║██╔════╝
 ██║     ███████║██╔██╗ ██║██║  ███╗
 ██║     ██╔══██║██║╚██╗██║██║   ██║
 ███████╗██║  ██║██║ ╚████║╚██████╔╝
 ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝
 ██████╗ ██████╗ ██╗██╗     ██╗
 ██╔══██╗██╔══██╗██║██║     ██║
 ██║  ██║██████╔╝██║██║     ██║
 ██║  ██║██╔══██╗██║██║     ██║
 ██████╔╝██║  ██║██║███████╗███████╗
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝`

const tagline = "Listen. Read. Speak. Write. One drill at a time."

var guide = [][2]string{
	{"Enter", "start, stop recording, submit"},
	{"s", "skip preparation time"},
	{"r", "restart the question"},
	{"n", "next question"},
	{"Esc", "back"},
}

type frameMsg struct{}

// WelcomeScreen plays until a key is pressed, then swaps itself for the
// screen built by next. next runs at most once.
type WelcomeScreen struct {
	next    func() screen.Screen
	frames  int
	leaving bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameEvery, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) elapsed() time.Duration {
	return time.Duration(w.frames) * frameEvery
}

func (w *WelcomeScreen) stage() stage {
	s := stageMic
	for i, at := range stageAt {
		if w.elapsed() >= at {
			s = stage(i)
		}
	}
	return s
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		w.frames++
		return w, nextFrame()
	case tea.KeyPressMsg:
		if w.leaving {
			return w, nil
		}
		w.leaving = true
		return w, router.Swap(w.next())
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	art := mic
	if w.stage() >= stageListening {
		wave := lipgloss.NewStyle().Foreground(theme.Accent).
			Render(strings.Repeat(")", 2+w.frames%2))
		lines := strings.Split(art, "\n")
		lines[1] += "  " + wave
		lines[2] += "  " + wave
		art = strings.Join(lines, "\n")
	}
	parts := []string{lipgloss.NewStyle().Foreground(theme.Cyan).Render(art)}

	if w.stage() >= stageBanner {
		parts = append(parts,
			"",
			renderBanner(width),
			"",
			theme.Body.Bold(true).Render(tagline),
			"",
			renderGuide(),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

// Banner is the block-letter logo, or spaced letters when fewer than 40
// columns are available.
func Banner(width int) string {
	if width < 40 {
		return "L A N G D R I L L"
	}
	return strings.TrimPrefix(banner, "\n")
}

func renderBanner(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(Banner(width))
}

func renderGuide() string {
	key := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Width(7)
	what := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := make([]string, len(guide))
	for i, g := range guide {
		lines[i] = key.Render(g[0]) + what.Render(g[1])
	}
	return strings.Join(lines, "\n")
}
