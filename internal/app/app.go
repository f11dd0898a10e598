package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/router"
	"github.com/abhisek/langdrill/internal/screen"
	"github.com/abhisek/langdrill/internal/screens/home"
	"github.com/abhisek/langdrill/internal/screens/welcome"
	"github.com/abhisek/langdrill/internal/selfupdate"
	"github.com/abhisek/langdrill/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Home    home.Deps
	Logger  *logger.Logger
	Version string

	// CheckUpdates looks for a newer release in the background.
	CheckUpdates bool

	// FirstRun opens on the welcome splash instead of the home screen.
	FirstRun bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	var initial screen.Screen
	if opts.FirstRun {
		initial = welcome.New(func() screen.Screen { return home.New(opts.Home) })
	} else {
		initial = home.New(opts.Home)
	}
	return AppModel{
		router: router.New(initial),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.opts.CheckUpdates {
		cmds = append(cmds, checkUpdate(m.opts.Version, m.opts.Logger))
	}
	return tea.Batch(cmds...)
}

func checkUpdate(version string, log *logger.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := selfupdate.NewChecker().Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			log.Debug("update check failed", "error", err)
			return nil
		}
		if !res.UpdateAvailable {
			return nil
		}
		return home.UpdateAvailableMsg{Version: res.LatestVersion}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Back()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if !layout.Fits(m.width, m.height) {
		v.SetContent(layout.TooSmall(m.width, m.height))
		return v
	}

	chrome := layout.Chrome{Hints: m.hints()}
	if active := m.router.Active(); active != nil {
		chrome.Title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			chrome.Status = sp.Status()
		}
	}
	v.SetContent(chrome.Render(m.width, m.height, m.router.View))
	return v
}

// hints are the active screen's own key hints, or the generic ones for
// the home screen and for screens pushed above it.
func (m AppModel) hints() []layout.KeyHint {
	if hp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. Screens still on the stack are closed
// when the program exits so running sessions release their devices.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.router.CloseAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
