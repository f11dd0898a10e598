package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileRecorder serves a pre-recorded file as the capture. Used by the
// headless drill command and in tests.
type FileRecorder struct {
	Path string

	mu       sync.Mutex
	acquired bool
	started  time.Time
	now      func() time.Time
}

// NewFileRecorder returns a recorder that yields the contents of path.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{Path: path, now: time.Now}
}

func (r *FileRecorder) Acquire(ctx context.Context) error {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, r.Path)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.Close()

	r.mu.Lock()
	r.acquired = true
	r.mu.Unlock()
	return nil
}

func (r *FileRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.acquired {
		return ErrUnavailable
	}
	r.started = r.now()
	return nil
}

func (r *FileRecorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	started := r.started
	r.started = time.Time{}
	r.mu.Unlock()
	if started.IsZero() {
		return nil, ErrNotRecording
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return &Clip{
		Data:     data,
		MIMEType: mimeFor(r.Path),
		Duration: r.now().Sub(started),
		Name:     filepath.Base(r.Path),
	}, nil
}

func (r *FileRecorder) Release() error {
	r.mu.Lock()
	r.acquired = false
	r.started = time.Time{}
	r.mu.Unlock()
	return nil
}
