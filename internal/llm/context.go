package llm

import "context"

// Purpose labels why a request was made; it is stored with each logged
// request.
type Purpose string

const (
	PurposeResponseEval Purpose = "response-eval"
	PurposeSpeechEval   Purpose = "speech-eval"
	PurposeUnknown      Purpose = "unknown"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}
