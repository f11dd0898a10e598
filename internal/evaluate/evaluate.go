// Package evaluate scores free-form responses remotely: an HTTP endpoint
// or an LLM judges text, and speech is transcribed first.
package evaluate

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/scoring"
)

var (
	// ErrNoTranscriber is returned for spoken submissions when no
	// transcriber is configured.
	ErrNoTranscriber = errors.New("evaluate: no transcriber configured")

	// ErrEmptyResponse is returned when there is nothing to evaluate.
	ErrEmptyResponse = errors.New("evaluate: empty response")
)

// Submission is one finalized open response.
type Submission struct {
	Kind   exercise.Kind
	Record *exercise.Record

	// Text is the typed response. Empty for spoken submissions.
	Text string
	Clip *capture.Clip
}

// Evaluator scores a submission. Implementations make a single attempt;
// callers treat any error as final for that submission.
type Evaluator interface {
	Evaluate(ctx context.Context, sub *Submission) (*scoring.Result, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *capture.Clip) (string, error)
}

// Request is the body sent to a text evaluator. Empty fields are omitted
// on the wire.
type Request struct {
	Transcript   string `json:"transcript,omitempty"`
	Question     string `json:"question,omitempty"`
	SampleAnswer string `json:"sampleAnswer,omitempty"`
	Response     string `json:"response,omitempty"`
	UserResponse string `json:"userResponse,omitempty"`
}

// Response is a text evaluator's verdict.
type Response struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`

	// Transcript is what an audio evaluator heard.
	Transcript string `json:"transcript,omitempty"`

	// Scale overrides the kind's max score when set.
	Scale float64 `json:"-"`
}

// TextEvaluator judges a text response.
type TextEvaluator interface {
	EvaluateText(ctx context.Context, req Request) (*Response, error)
}

// AudioEvaluator judges a recording directly, without a transcriber.
type AudioEvaluator interface {
	AcceptsAudio() bool
	EvaluateAudio(ctx context.Context, req Request, clip *capture.Clip) (*Response, error)
}

// BuildRequest fills a Request from the record behind sub. Spoken
// responses go in userResponse, typed ones in response.
func BuildRequest(sub *Submission, response string) Request {
	req := Request{}
	if rec := sub.Record; rec != nil {
		req.Question = rec.Prompt
		req.Transcript = rec.Transcript
		if o, ok := rec.Content.(exercise.OpenResponse); ok {
			req.SampleAnswer = o.SampleAnswer
			if req.Transcript == "" {
				req.Transcript = o.Transcript
			}
		}
	}
	if sub.Clip != nil {
		req.UserResponse = response
	} else {
		req.Response = response
	}
	return req
}

// SpeechEvaluator transcribes spoken submissions and hands the text to a
// TextEvaluator. Typed submissions skip transcription. Without a
// Transcriber, recordings go straight to Text when it is an AudioEvaluator
// that accepts audio.
type SpeechEvaluator struct {
	Text        TextEvaluator
	Transcriber Transcriber
}

func (e *SpeechEvaluator) Evaluate(ctx context.Context, sub *Submission) (*scoring.Result, error) {
	var response, transcript string
	switch {
	case sub.Clip != nil:
		if e.Transcriber == nil {
			if a, ok := e.Text.(AudioEvaluator); ok && a.AcceptsAudio() {
				return e.evaluateAudio(ctx, a, sub)
			}
			return nil, ErrNoTranscriber
		}
		text, err := e.Transcriber.Transcribe(ctx, sub.Clip)
		if err != nil {
			return nil, err
		}
		response, transcript = strings.TrimSpace(text), strings.TrimSpace(text)
	default:
		response = strings.TrimSpace(sub.Text)
	}
	if response == "" {
		return nil, ErrEmptyResponse
	}

	resp, err := e.Text.EvaluateText(ctx, BuildRequest(sub, response))
	if err != nil {
		return nil, err
	}
	return remoteResult(sub, resp, transcript), nil
}

func (e *SpeechEvaluator) evaluateAudio(ctx context.Context, a AudioEvaluator, sub *Submission) (*scoring.Result, error) {
	if len(sub.Clip.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	resp, err := a.EvaluateAudio(ctx, BuildRequest(sub, ""), sub.Clip)
	if err != nil {
		return nil, err
	}
	return remoteResult(sub, resp, strings.TrimSpace(resp.Transcript)), nil
}

func remoteResult(sub *Submission, resp *Response, transcript string) *scoring.Result {
	scale := sub.Kind.MaxScore
	if resp.Scale > 0 {
		scale = resp.Scale
	}
	return scoring.NewRemote(resp.Score, scale, resp.Feedback, transcript)
}
