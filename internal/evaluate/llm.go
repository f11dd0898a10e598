package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/llm"
)

// LLMConfig holds generation settings for the LLM evaluator.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// LLMEvaluator judges text responses with an LLM. Scores come back as a
// percentage.
type LLMEvaluator struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLMEvaluator creates an LLM-backed text evaluator.
func NewLLMEvaluator(provider llm.Provider, cfg LLMConfig) *LLMEvaluator {
	return &LLMEvaluator{provider: provider, cfg: cfg}
}

// EvaluationSchema is the structured output the LLM must return.
var EvaluationSchema = &llm.Schema{
	Name:        "response-evaluation",
	Description: "Score and short feedback for a language learner's response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall score as a percentage",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of feedback addressed to the learner",
			},
		},
		"required":             []string{"score", "feedback"},
		"additionalProperties": false,
	},
}

// AudioEvaluationSchema is EvaluationSchema plus the model's transcript of
// the recording.
var AudioEvaluationSchema = &llm.Schema{
	Name:        "speech-evaluation",
	Description: "Transcript, score and short feedback for a spoken response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transcript": map[string]any{
				"type":        "string",
				"description": "Verbatim transcript of the recording",
			},
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall score as a percentage",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of feedback addressed to the learner",
			},
		},
		"required":             []string{"transcript", "score", "feedback"},
		"additionalProperties": false,
	},
}

// AcceptsAudio reports whether the provider can judge recordings directly.
func (e *LLMEvaluator) AcceptsAudio() bool {
	return llm.AcceptsAudio(e.provider)
}

// EvaluateAudio sends the recording itself with the task description.
func (e *LLMEvaluator) EvaluateAudio(ctx context.Context, req Request, clip *capture.Clip) (*Response, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSpeechEval)

	userMsg, err := buildEvaluationMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}
	userMsg += audioInstruction

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: evaluationSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: userMsg,
			Audio:   &llm.Audio{Data: clip.Data, MIMEType: clip.MIMEType},
		}},
		Schema:      AudioEvaluationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM speech evaluation failed: %w", err)
	}
	return decodeEvaluation(resp)
}

func (e *LLMEvaluator) EvaluateText(ctx context.Context, req Request) (*Response, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeResponseEval)

	userMsg, err := buildEvaluationMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: evaluationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM evaluation failed: %w", err)
	}
	return decodeEvaluation(resp)
}

func decodeEvaluation(resp *llm.Response) (*Response, error) {
	var out Response
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}
	out.Scale = 100
	return &out, nil
}

const evaluationSystemPrompt = `You are an examiner for an English proficiency test. Score the learner's response to the task below.

Instructions:
- Judge content, grammar, vocabulary and fluency against the task and any sample answer.
- A response that ignores the task scores below 20.
- Return score as a percentage from 0 to 100.
- Keep feedback to two or three sentences addressed to the learner.`

var evaluationUserTemplate = template.Must(template.New("evaluation").Parse(`{{if .Question}}Task: {{.Question}}
{{end}}{{if .Transcript}}Source transcript: {{.Transcript}}
{{end}}{{if .SampleAnswer}}Sample answer: {{.SampleAnswer}}
{{end}}{{if .UserResponse}}Learner's spoken response (transcribed): {{.UserResponse}}
{{else if .Response}}Learner's response: {{.Response}}
{{end}}`))

const audioInstruction = `The learner's spoken response is attached as audio. Transcribe it verbatim, then score it. Judge pronunciation and fluency as well as content.
`

func buildEvaluationMessage(req Request) (string, error) {
	var buf bytes.Buffer
	if err := evaluationUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
