package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/llm"
)

// maxBody caps how much of a remote response is read.
const maxBody = 1 << 20

// HTTPEvaluator posts a Request as JSON and expects {score, feedback}.
type HTTPEvaluator struct {
	URL    string
	Client *http.Client
}

func (e *HTTPEvaluator) EvaluateText(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode evaluation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := do(client(e.Client), httpReq)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if err := llm.Validate(evaluationSchema, raw); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("evaluate: decode response: %w", err)
	}
	return &resp, nil
}

// HTTPTranscriber posts audio as multipart form field "file" and expects
// {text}.
type HTTPTranscriber struct {
	URL    string
	Client *http.Client
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, clip *capture.Clip) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := clip.Name
	if name == "" {
		name = "recording"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", clip.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(clip.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := do(client(t.Client), httpReq)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	if err := llm.Validate(transcriptionSchema, raw); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("transcribe: decode response: %w", err)
	}
	return out.Text, nil
}

// StatusError is a non-2xx reply from a remote endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.Code, e.Body)
}

func client(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}

func do(c *http.Client, req *http.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(raw)
		if len(body) > 200 {
			body = body[:200]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	return raw, nil
}

var (
	evaluationSchema = &llm.Schema{
		Name:        "remote_evaluation",
		Description: "Score and feedback for a free-form response",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"score"},
			"properties": map[string]any{
				"score":    map[string]any{"type": "number"},
				"feedback": map[string]any{"type": "string"},
			},
		},
	}
	transcriptionSchema = &llm.Schema{
		Name:        "remote_transcription",
		Description: "Transcribed text of a recording",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"text"},
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
		},
	}
)
