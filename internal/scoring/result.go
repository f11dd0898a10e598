package scoring

import "math"

// Source says who produced a result.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// PassPercent is the percentage at or above which a result counts as a pass.
const PassPercent = 60

// BlankResult is the per-gap outcome of a fill-in exercise.
type BlankResult struct {
	ID       int
	Expected string
	Given    string
	Correct  bool
}

// Result is the outcome of one submission. It is never mutated after
// creation; a restart produces a fresh one.
type Result struct {
	Score    float64
	MaxScore float64
	// Percent is in [0, 100].
	Percent float64

	// Correct and Total are set for objective formats.
	Correct int
	Total   int
	Blanks  []BlankResult

	Feedback   string
	Transcript string
	Source     Source
}

// Passed reports whether the result meets the pass mark.
func (r *Result) Passed() bool {
	return r.Percent >= PassPercent
}

// Ratio returns Percent as a fraction in [0, 1].
func (r *Result) Ratio() float64 {
	return r.Percent / 100
}

// NewRemote builds a result from an evaluator's score on a maxScore scale.
// A zero maxScore treats score as a percentage.
func NewRemote(score, maxScore float64, feedback, transcript string) *Result {
	pct := score
	if maxScore > 0 {
		pct = score / maxScore * 100
	}
	return &Result{
		Score:      score,
		MaxScore:   maxScore,
		Percent:    clamp(pct, 0, 100),
		Feedback:   feedback,
		Transcript: transcript,
		Source:     SourceRemote,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
