package evaluate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/abhisek/langdrill/internal/config"
	"github.com/abhisek/langdrill/internal/llm"
	"github.com/abhisek/langdrill/internal/logger"
)

// Deps carries what New needs beyond the config section.
type Deps struct {
	// Provider backs the "llm" mode. Nil makes that mode unavailable.
	Provider llm.Provider

	// OpenAIKey and OpenAIBaseURL back the whisper transcriber. When the
	// key is empty OPENAI_API_KEY is tried.
	OpenAIKey     string
	OpenAIBaseURL string

	Logger *logger.Logger
}

// New builds the evaluator selected by cfg. It returns a nil Evaluator for
// mode "none". The returned closer releases transcriber connections and is
// never nil.
func New(ctx context.Context, cfg config.EvaluatorConfig, deps Deps) (Evaluator, io.Closer, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var text TextEvaluator
	switch cfg.Mode {
	case "none", "":
		return nil, nopCloser{}, nil
	case "http":
		text = &HTTPEvaluator{URL: cfg.URL, Client: httpClient}
	case "llm":
		if deps.Provider == nil {
			return nil, nopCloser{}, errors.New("evaluator mode llm needs a configured LLM provider")
		}
		text = NewLLMEvaluator(deps.Provider, DefaultLLMConfig())
	default:
		return nil, nopCloser{}, fmt.Errorf("unknown evaluator mode: %q", cfg.Mode)
	}

	var (
		tr     Transcriber
		closer io.Closer = nopCloser{}
	)
	switch cfg.Transcriber {
	case "none", "":
	case "http":
		tr = &HTTPTranscriber{URL: cfg.TranscribeURL, Client: httpClient}
	case "whisper":
		key := firstNonEmpty(deps.OpenAIKey, os.Getenv("OPENAI_API_KEY"))
		w, err := NewWhisperTranscriber(key, deps.OpenAIBaseURL, cfg.LanguageCode)
		if err != nil {
			// Typed responses can still be evaluated.
			log.Warn("whisper transcriber unavailable", "error", err)
			break
		}
		tr = w
	case "google":
		g, err := NewGoogleTranscriber(ctx, cfg.LanguageCode, cfg.GoogleCredentials)
		if err != nil {
			log.Warn("google transcriber unavailable", "error", err)
			break
		}
		tr, closer = g, g
	default:
		return nil, nopCloser{}, fmt.Errorf("unknown transcriber: %q", cfg.Transcriber)
	}

	audio := false
	if a, ok := text.(AudioEvaluator); ok && tr == nil {
		audio = a.AcceptsAudio()
	}
	log.Debug("evaluator configured", "mode", cfg.Mode, "transcriber", cfg.Transcriber,
		"speech", tr != nil || audio, "native_audio", audio)
	return &SpeechEvaluator{Text: text, Transcriber: tr}, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
