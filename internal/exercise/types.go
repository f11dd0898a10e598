package exercise

import "fmt"

// Section groups exercise kinds the way the test paper does.
type Section string

const (
	SectionListening Section = "listening"
	SectionReading   Section = "reading"
	SectionSpeaking  Section = "speaking"
	SectionWriting   Section = "writing"
)

// Format describes how a learner answers and how the answer is scored.
type Format string

const (
	// FormatFillBlanks means typed answers for numbered gaps in a text.
	FormatFillBlanks Format = "fill_blanks"

	// FormatSingleChoice means exactly one option is correct.
	FormatSingleChoice Format = "single_choice"

	// FormatMultiSelect means one or more options are correct and
	// partial credit applies.
	FormatMultiSelect Format = "multi_select"

	// FormatOpenSpeech means a spoken response scored remotely.
	FormatOpenSpeech Format = "open_speech"

	// FormatOpenText means a written response scored remotely.
	FormatOpenText Format = "open_text"
)

// Objective reports whether the format has a locally checkable answer.
func (f Format) Objective() bool {
	switch f {
	case FormatFillBlanks, FormatSingleChoice, FormatMultiSelect:
		return true
	}
	return false
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatFillBlanks, FormatSingleChoice, FormatMultiSelect, FormatOpenSpeech, FormatOpenText:
		return true
	}
	return false
}

// Stage is an optional, timed step of the session lifecycle. Ready,
// completed and submitted are implicit for every kind.
type Stage string

const (
	StagePreparation Stage = "preparation"
	StageCountdown   Stage = "countdown"
	StageRecording   Stage = "recording"
)

// stageOrder is the only order stages may appear in.
var stageOrder = []Stage{StagePreparation, StageCountdown, StageRecording}

// Budgets holds per-stage durations in seconds. Zero means "not set" on a
// record and "absent or untimed" once resolved against a kind.
type Budgets struct {
	Preparation int `json:"preparation_seconds,omitempty" yaml:"preparation_seconds"`
	Countdown   int `json:"countdown_seconds,omitempty" yaml:"countdown_seconds"`
	Response    int `json:"response_seconds,omitempty" yaml:"response_seconds"`
}

// For returns the budget for a stage.
func (b Budgets) For(s Stage) int {
	switch s {
	case StagePreparation:
		return b.Preparation
	case StageCountdown:
		return b.Countdown
	case StageRecording:
		return b.Response
	}
	return 0
}

// Record is the immutable data for a single question.
type Record struct {
	ID         int
	KindID     string
	Title      string
	Prompt     string
	Transcript string
	AudioURL   string
	Budgets    Budgets
	Content    Content
}

// Key returns a stable identifier like "listening/fill-blanks#3".
func (r *Record) Key() string {
	return fmt.Sprintf("%s#%d", r.KindID, r.ID)
}

// ResolvedBudgets fills unset record budgets from the kind defaults.
func (r *Record) ResolvedBudgets(k Kind) Budgets {
	b := r.Budgets
	if b.Preparation == 0 {
		b.Preparation = k.PreparationSeconds
	}
	if b.Countdown == 0 {
		b.Countdown = k.CountdownSeconds
	}
	if b.Response == 0 {
		b.Response = k.ResponseSeconds
	}
	return b
}

// Content is the tagged per-format payload of a record. Exactly one of
// FillBlanks, Choice or OpenResponse.
type Content interface {
	Format() Format
	isContent()
}

// Blank is one gap in a fill-in text.
type Blank struct {
	ID     int
	Answer string
}

// FillBlanks is a text with numbered gaps.
type FillBlanks struct {
	// Text keeps the gap markers normalized to "[n]".
	Text   string
	Blanks []Blank
}

func (FillBlanks) Format() Format { return FormatFillBlanks }
func (FillBlanks) isContent()     {}

// Option is one labelled choice.
type Option struct {
	Label string
	Text  string
}

// Choice is a single- or multi-answer question.
type Choice struct {
	Stem    string
	Options []Option
	// Correct holds option labels.
	Correct []string
	Multi   bool
}

func (c Choice) Format() Format {
	if c.Multi {
		return FormatMultiSelect
	}
	return FormatSingleChoice
}
func (Choice) isContent() {}

// OptionByLabel returns the option with the given label (case-insensitive).
func (c Choice) OptionByLabel(label string) (Option, bool) {
	for _, o := range c.Options {
		if equalFold(o.Label, label) {
			return o, true
		}
	}
	return Option{}, false
}

// OpenResponse is a free-form prompt scored by the remote evaluator.
type OpenResponse struct {
	Prompt       string
	SampleAnswer string
	Transcript   string
	Spoken       bool
}

func (o OpenResponse) Format() Format {
	if o.Spoken {
		return FormatOpenSpeech
	}
	return FormatOpenText
}
func (OpenResponse) isContent() {}
