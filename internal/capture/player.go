package capture

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/abhisek/langdrill/internal/logger"
)

// LogPlayer records playback requests without producing sound.
type LogPlayer struct {
	Log *logger.Logger
}

func (p LogPlayer) Play(ctx context.Context, url string) error {
	if p.Log != nil {
		p.Log.Info("play audio", "url", url)
	}
	return nil
}

// CommandPlayer plays audio with an external program such as mpv or ffplay.
type CommandPlayer struct {
	Program string
	Args    []string
}

// DetectPlayer returns a CommandPlayer for the first known program on PATH,
// falling back to a LogPlayer.
func DetectPlayer(log *logger.Logger) Player {
	candidates := []CommandPlayer{
		{Program: "mpv", Args: []string{"--no-video", "--really-quiet"}},
		{Program: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c.Program); err == nil {
			return c
		}
	}
	return LogPlayer{Log: log}
}

// Play starts playback and returns once the program has started. The
// process is killed when ctx is done.
func (p CommandPlayer) Play(ctx context.Context, url string) error {
	args := append(append([]string{}, p.Args...), url)
	cmd := exec.CommandContext(ctx, p.Program, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Program, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
