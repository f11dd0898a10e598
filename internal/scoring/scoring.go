// Package scoring checks objective answers locally.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/langdrill/internal/exercise"
)

// ErrNotObjective is returned for formats that need a remote evaluator.
var ErrNotObjective = errors.New("scoring: format has no local answer")

// Matches reports whether given equals expected, ignoring case and
// surrounding whitespace.
func Matches(given, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}

// Contains reports whether given matches any of the accepted answers.
func Contains(accepted []string, given string) bool {
	for _, a := range accepted {
		if Matches(given, a) {
			return true
		}
	}
	return false
}

// Score grades answers against objective content. For fill-in content,
// answers[i] fills blank i+1. For choices, answers holds option labels or
// option texts.
func Score(content exercise.Content, answers []string) (*Result, error) {
	switch c := content.(type) {
	case exercise.FillBlanks:
		return scoreBlanks(c, answers), nil
	case exercise.Choice:
		if c.Multi {
			return scoreMulti(c, answers), nil
		}
		return scoreSingle(c, answers), nil
	case nil:
		return nil, fmt.Errorf("scoring: no content")
	}
	return nil, ErrNotObjective
}

func scoreBlanks(c exercise.FillBlanks, answers []string) *Result {
	res := &Result{Total: len(c.Blanks), MaxScore: float64(len(c.Blanks)), Source: SourceLocal}
	for i, b := range c.Blanks {
		var given string
		if i < len(answers) {
			given = strings.TrimSpace(answers[i])
		}
		ok := given != "" && Matches(given, b.Answer)
		if ok {
			res.Correct++
		}
		res.Blanks = append(res.Blanks, BlankResult{ID: b.ID, Expected: b.Answer, Given: given, Correct: ok})
	}
	res.Score = float64(res.Correct)
	if res.Total > 0 {
		res.Percent = float64(res.Correct) / float64(res.Total) * 100
	}
	return res
}

func scoreSingle(c exercise.Choice, answers []string) *Result {
	res := &Result{Total: 1, MaxScore: 1, Source: SourceLocal}
	if len(answers) > 0 {
		if label, ok := resolve(c, answers[0]); ok && Contains(c.Correct, label) {
			res.Correct = 1
			res.Score = 1
			res.Percent = 100
		}
	}
	return res
}

// scoreMulti applies max(0, correct - incorrect) / totalCorrect. Repeated
// selections of the same option count once.
func scoreMulti(c exercise.Choice, answers []string) *Result {
	total := len(c.Correct)
	res := &Result{Total: total, MaxScore: float64(total), Source: SourceLocal}
	if total == 0 {
		return res
	}

	seen := make(map[string]bool)
	incorrect := 0
	for _, a := range answers {
		label, ok := resolve(c, a)
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		if Contains(c.Correct, label) {
			res.Correct++
		} else {
			incorrect++
		}
	}

	net := float64(res.Correct - incorrect)
	res.Score = clamp(net, 0, float64(total))
	res.Percent = clamp(net/float64(total), 0, 1) * 100
	return res
}

// resolve maps a selection given as a label or as option text to a label.
func resolve(c exercise.Choice, sel string) (string, bool) {
	if o, ok := c.OptionByLabel(sel); ok {
		return o.Label, true
	}
	for _, o := range c.Options {
		if Matches(sel, o.Text) {
			return o.Label, true
		}
	}
	return "", false
}
