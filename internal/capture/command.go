package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/abhisek/langdrill/internal/logger"
)

// DefaultRecordArgs records mono 16kHz WAV with sox. "{out}" is replaced
// with the output path.
var DefaultRecordArgs = []string{"rec", "-q", "-c", "1", "-r", "16000", "{out}"}

// CommandRecorder captures audio by running an external recorder program
// that writes to a temporary WAV file and stops on SIGINT.
type CommandRecorder struct {
	Args []string
	Log  *logger.Logger

	mu      sync.Mutex
	dir     string
	cmd     *exec.Cmd
	out     string
	started time.Time
}

// NewCommandRecorder returns a recorder using args, or DefaultRecordArgs
// when args is empty.
func NewCommandRecorder(log *logger.Logger, args ...string) *CommandRecorder {
	if len(args) == 0 {
		args = DefaultRecordArgs
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CommandRecorder{Args: args, Log: log}
}

// Acquire checks that the recorder program exists and prepares a scratch
// directory.
func (r *CommandRecorder) Acquire(ctx context.Context) error {
	if _, err := exec.LookPath(r.Args[0]); err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnavailable, r.Args[0])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dir != "" {
		return nil
	}
	dir, err := os.MkdirTemp("", "langdrill-capture-")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	r.dir = dir
	return nil
}

func (r *CommandRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dir == "" {
		return ErrUnavailable
	}
	if r.cmd != nil {
		return fmt.Errorf("capture: already recording")
	}

	out := filepath.Join(r.dir, fmt.Sprintf("clip-%d.wav", time.Now().UnixNano()))
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		if a == "{out}" {
			a = out
		}
		args[i] = a
	}

	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("start recorder: %w", err)
	}
	r.Log.Debug("recorder started", "pid", cmd.Process.Pid, "out", out)

	r.cmd, r.out, r.started = cmd, out, time.Now()
	return nil
}

func (r *CommandRecorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	cmd, out, started := r.cmd, r.out, r.started
	r.cmd = nil
	r.mu.Unlock()
	if cmd == nil {
		return nil, ErrNotRecording
	}

	_ = cmd.Process.Signal(syscall.SIGINT)
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	_ = os.Remove(out)
	return &Clip{
		Data:     data,
		MIMEType: "audio/wav",
		Duration: time.Since(started),
		Name:     filepath.Base(out),
	}, nil
}

func (r *CommandRecorder) Release() error {
	r.mu.Lock()
	cmd, dir := r.cmd, r.dir
	r.cmd, r.dir = nil, ""
	r.mu.Unlock()

	if cmd != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	if dir != "" {
		return os.RemoveAll(dir)
	}
	return nil
}
