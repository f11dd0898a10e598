// Package fixture turns raw question JSON into typed exercise records.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/langdrill/internal/exercise"
)

// Raw is one fixture record as it appears on disk.
type Raw struct {
	ID       int    `json:"id"`
	Title    string `json:"title,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	AnswerAI string `json:"answer_ai,omitempty"`
	Audio    string `json:"audio,omitempty"`

	PreparationSeconds int `json:"preparation_seconds,omitempty"`
	ResponseSeconds    int `json:"response_seconds,omitempty"`
}

const optionDelimiter = "###"

var (
	inlineAnswerRe  = regexp.MustCompile(`(?is)\(\s*answers?\s*:\s*(.*?)\)\s*$`)
	numberedBlankRe = regexp.MustCompile(`\[(\d+)\]`)
	inputBlankRe    = regexp.MustCompile(`(?i)\[input\]`)
	optionPrefixRe  = regexp.MustCompile(`^([A-Za-z])\s*[\).:]\s+(.+)$`)
	transcriptRe    = regexp.MustCompile(`(?i)\btranscript\s*:`)
)

// ParseAll decodes a JSON array of raw records and parses each one for the
// given kind. Malformed records are skipped; their errors are returned
// joined alongside the records that parsed.
func ParseAll(kind exercise.Kind, data []byte) ([]*exercise.Record, error) {
	var raws []Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &ParseError{Kind: kind.ID, Reason: fmt.Sprintf("decode: %v", err)}
	}

	var (
		records []*exercise.Record
		errs    []error
		seen    = make(map[int]bool, len(raws))
	)
	for _, raw := range raws {
		if seen[raw.ID] {
			errs = append(errs, parseErr(kind.ID, raw.ID, "id", "duplicate id"))
			continue
		}
		seen[raw.ID] = true

		rec, err := Parse(kind, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}

// Parse converts one raw record into a typed record for kind.
func Parse(kind exercise.Kind, raw Raw) (*exercise.Record, error) {
	if raw.ID <= 0 {
		return nil, parseErr(kind.ID, raw.ID, "id", "must be a positive integer")
	}
	if strings.TrimSpace(raw.Question) == "" {
		return nil, parseErr(kind.ID, raw.ID, "question", "empty")
	}
	if raw.PreparationSeconds < 0 || raw.ResponseSeconds < 0 {
		return nil, parseErr(kind.ID, raw.ID, "", "budgets must not be negative")
	}

	rec := &exercise.Record{
		ID:       raw.ID,
		KindID:   kind.ID,
		Title:    strings.TrimSpace(raw.Title),
		AudioURL: PlayableURL(strings.TrimSpace(raw.Audio)),
		Budgets: exercise.Budgets{
			Preparation: raw.PreparationSeconds,
			Response:    raw.ResponseSeconds,
		},
	}
	if kind.PlaysAudio && rec.AudioURL == "" {
		return nil, parseErr(kind.ID, raw.ID, "audio", "required for %s", kind.ID)
	}

	var err error
	switch kind.Format {
	case exercise.FormatFillBlanks:
		err = parseFillBlanks(kind, raw, rec)
	case exercise.FormatSingleChoice, exercise.FormatMultiSelect:
		err = parseChoice(kind, raw, rec)
	case exercise.FormatOpenSpeech, exercise.FormatOpenText:
		err = parseOpen(kind, raw, rec)
	default:
		err = parseErr(kind.ID, raw.ID, "", "unsupported format %q", kind.Format)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// splitInlineAnswer strips a trailing "(Answer: ...)" from text.
func splitInlineAnswer(text string) (body, answer string, ok bool) {
	loc := inlineAnswerRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, "", false
	}
	return strings.TrimSpace(text[:loc[0]]), strings.TrimSpace(text[loc[2]:loc[3]]), true
}

// answerSource picks the explicit answer field over an inline one.
func answerSource(raw Raw, inline string) string {
	if a := strings.TrimSpace(raw.Answer); a != "" {
		return a
	}
	return inline
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func parseFillBlanks(kind exercise.Kind, raw Raw, rec *exercise.Record) error {
	text, inline, _ := splitInlineAnswer(strings.TrimSpace(raw.Question))

	numbered := numberedBlankRe.FindAllStringSubmatch(text, -1)
	positional := inputBlankRe.FindAllStringIndex(text, -1)
	switch {
	case len(numbered) > 0 && len(positional) > 0:
		return parseErr(kind.ID, raw.ID, "question", "mixes [n] and [input] markers")
	case len(numbered) == 0 && len(positional) == 0:
		return parseErr(kind.ID, raw.ID, "question", "no blanks found")
	}

	var ids []int
	if len(positional) > 0 {
		n := 0
		text = inputBlankRe.ReplaceAllStringFunc(text, func(string) string {
			n++
			ids = append(ids, n)
			return "[" + strconv.Itoa(n) + "]"
		})
	} else {
		for _, m := range numbered {
			id, _ := strconv.Atoi(m[1])
			ids = append(ids, id)
		}
		sorted := slices.Clone(ids)
		sort.Ints(sorted)
		for i, id := range sorted {
			if id != i+1 {
				return parseErr(kind.ID, raw.ID, "question", "blanks must be numbered 1..%d once each", len(ids))
			}
		}
	}

	src := answerSource(raw, inline)
	if src == "" {
		return parseErr(kind.ID, raw.ID, "answer", "missing")
	}
	answers := splitList(src)
	if len(answers) != len(ids) {
		return parseErr(kind.ID, raw.ID, "answer", "%d answers for %d blanks", len(answers), len(ids))
	}

	blanks := make([]exercise.Blank, len(answers))
	for i, a := range answers {
		if a == "" {
			return parseErr(kind.ID, raw.ID, "answer", "blank %d has an empty answer", i+1)
		}
		blanks[i] = exercise.Blank{ID: i + 1, Answer: a}
	}

	rec.Prompt = text
	if kind.PlaysAudio {
		rec.Transcript = text
	}
	rec.Content = exercise.FillBlanks{Text: text, Blanks: blanks}
	return nil
}

func parseChoice(kind exercise.Kind, raw Raw, rec *exercise.Record) error {
	body, inline, _ := splitInlineAnswer(strings.TrimSpace(raw.Question))

	parts := strings.Split(body, optionDelimiter)
	stem := strings.TrimSpace(parts[0])
	if stem == "" {
		return parseErr(kind.ID, raw.ID, "question", "empty stem")
	}

	var texts []string
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			texts = append(texts, p)
		}
	}
	if len(texts) < 2 {
		return parseErr(kind.ID, raw.ID, "question", "need at least 2 options separated by %q", optionDelimiter)
	}
	if len(texts) > 26 {
		return parseErr(kind.ID, raw.ID, "question", "too many options")
	}

	options := labelOptions(texts)
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if seen[o.Label] {
			return parseErr(kind.ID, raw.ID, "question", "duplicate option label %q", o.Label)
		}
		seen[o.Label] = true
	}

	src := answerSource(raw, inline)
	if src == "" {
		return parseErr(kind.ID, raw.ID, "answer", "missing")
	}

	choice := exercise.Choice{Stem: stem, Options: options, Multi: kind.Format == exercise.FormatMultiSelect}
	entries := []string{src}
	if choice.Multi {
		entries = splitList(src)
	}
	for _, e := range entries {
		label, ok := resolveOption(options, e)
		if !ok {
			return parseErr(kind.ID, raw.ID, "answer", "%q matches no option", e)
		}
		if !slices.Contains(choice.Correct, label) {
			choice.Correct = append(choice.Correct, label)
		}
	}

	rec.Prompt = stem
	rec.Content = choice
	return nil
}

// labelOptions uses "A)" style prefixes when every option has one, and
// assigns A, B, C... otherwise.
func labelOptions(texts []string) []exercise.Option {
	options := make([]exercise.Option, len(texts))
	prefixed := true
	for i, t := range texts {
		m := optionPrefixRe.FindStringSubmatch(t)
		if m == nil {
			prefixed = false
			break
		}
		options[i] = exercise.Option{Label: strings.ToUpper(m[1]), Text: strings.TrimSpace(m[2])}
	}
	if prefixed {
		return options
	}
	for i, t := range texts {
		options[i] = exercise.Option{Label: string(rune('A' + i)), Text: t}
	}
	return options
}

// resolveOption maps an answer entry given as a label, "A) text" or the
// option text itself to a label.
func resolveOption(options []exercise.Option, entry string) (string, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", false
	}
	if m := optionPrefixRe.FindStringSubmatch(entry); m != nil {
		entry = m[1]
	}
	bare := strings.TrimRight(entry, ").:")
	for _, o := range options {
		if strings.EqualFold(o.Label, bare) {
			return o.Label, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.Text, entry) {
			return o.Label, true
		}
	}
	return "", false
}

func parseOpen(kind exercise.Kind, raw Raw, rec *exercise.Record) error {
	prompt := strings.TrimSpace(raw.Question)

	sample, transcript := strings.TrimSpace(raw.Answer), ""
	if loc := transcriptRe.FindStringIndex(sample); loc != nil {
		transcript = strings.TrimSpace(sample[loc[1]:])
		sample = strings.TrimSpace(sample[:loc[0]])
	}
	sample = strings.TrimSpace(strings.TrimPrefix(sample, "Answer:"))
	if sample == "" {
		sample = strings.TrimSpace(raw.AnswerAI)
	}

	rec.Prompt = prompt
	rec.Transcript = transcript
	rec.Content = exercise.OpenResponse{
		Prompt:       prompt,
		SampleAnswer: sample,
		Transcript:   transcript,
		Spoken:       kind.Format == exercise.FormatOpenSpeech,
	}
	return nil
}
