// Package capture wraps audio recording and playback.
package capture

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrPermissionDenied means the capture device refused access.
	ErrPermissionDenied = errors.New("capture: permission denied")

	// ErrUnavailable means no capture device or recorder program exists.
	ErrUnavailable = errors.New("capture: no recorder available")

	// ErrNotRecording is returned by Stop without a matching Start.
	ErrNotRecording = errors.New("capture: not recording")
)

// Clip is a finished recording.
type Clip struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
	// Name is a file name suitable for multipart uploads.
	Name string
}

// Recorder owns a single capture stream. Acquire must succeed before
// Start; Release is safe to call at any time and more than once.
type Recorder interface {
	Acquire(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*Clip, error)
	Release() error
}

// Player plays an audio reference.
type Player interface {
	Play(ctx context.Context, url string) error
}

// mimeFor guesses an audio MIME type from a file name.
func mimeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Unavailable is a Recorder that always fails to acquire.
type Unavailable struct{}

func (Unavailable) Acquire(context.Context) error       { return ErrUnavailable }
func (Unavailable) Start(context.Context) error         { return ErrUnavailable }
func (Unavailable) Stop(context.Context) (*Clip, error) { return nil, ErrNotRecording }
func (Unavailable) Release() error                      { return nil }
