package evaluate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/langdrill/internal/capture"
)

// WhisperTranscriber transcribes audio through the OpenAI audio API.
type WhisperTranscriber struct {
	client   *openai.Client
	language string
}

// NewWhisperTranscriber creates a transcriber. baseURL may be empty.
// languageCode is a BCP-47 tag such as "en-US"; only the language part is
// sent.
func NewWhisperTranscriber(apiKey, baseURL, languageCode string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("whisper: API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	lang, _, _ := strings.Cut(languageCode, "-")
	return &WhisperTranscriber{
		client:   openai.NewClientWithConfig(cfg),
		language: strings.ToLower(lang),
	}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, clip *capture.Clip) (string, error) {
	name := clip.Name
	if name == "" {
		name = "recording.wav"
	}
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: name,
		Reader:   bytes.NewReader(clip.Data),
		Language: w.language,
	})
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return resp.Text, nil
}
