package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/store"
)

// LoggingProvider appends an llm_request event for every call, success or
// not. A failure to store the event is logged and otherwise ignored.
type LoggingProvider struct {
	inner Provider
	name  string
	repo  store.EventRepo
	log   *logger.Logger
}

// WithLogging records calls to p under the vendor name. A nil log discards
// storage warnings.
func WithLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, name: name, repo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	event := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		if resp.Model != "" {
			event.Model = resp.Model
		}
		event.InputTokens = resp.Usage.InputTokens
		event.OutputTokens = resp.Usage.OutputTokens
		event.ResponseBody = string(resp.Content)
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}

	// The caller may have given up already; the event should still land.
	if logErr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), event); logErr != nil {
		l.log.Warn("failed to store llm request event", "provider", l.name, "error", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) AcceptsAudio() bool {
	return AcceptsAudio(l.inner)
}

// serializeRequest renders req as tagged plain text for the event log.
// Audio bytes are summarized, never stored.
func serializeRequest(req Request) string {
	var b strings.Builder
	section := func(tag, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		body := m.Content
		if m.Audio != nil {
			body += fmt.Sprintf("\n[audio: %s, %d bytes]", m.Audio.MIMEType, len(m.Audio.Data))
		}
		section(string(m.Role), body)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
