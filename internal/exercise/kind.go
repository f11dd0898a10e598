package exercise

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultCountdownSeconds is used when a kind has a countdown stage but no
// explicit duration.
const DefaultCountdownSeconds = 3

// Kind describes one exercise type. A single session controller is
// parameterized by it instead of each page carrying its own lifecycle.
type Kind struct {
	ID      string  `yaml:"id"`
	Section Section `yaml:"section"`
	Title   string  `yaml:"title"`
	Format  Format  `yaml:"format"`

	// Stages lists the optional timed stages in lifecycle order.
	Stages []Stage `yaml:"stages"`

	PreparationSeconds int `yaml:"preparation_seconds"`
	CountdownSeconds   int `yaml:"countdown_seconds"`
	// ResponseSeconds of 0 leaves the recording/answering stage untimed.
	ResponseSeconds int `yaml:"response_seconds"`

	CaptureRequired bool `yaml:"capture_required"`
	PlaysAudio      bool `yaml:"plays_audio"`
	AutoStart       bool `yaml:"auto_start"`

	// MaxScore is the scale used by the remote evaluator for open formats.
	MaxScore float64 `yaml:"max_score"`

	Instructions string `yaml:"instructions"`
}

// Slug returns the part of the ID after the section, e.g. "fill-blanks".
func (k Kind) Slug() string {
	if i := strings.IndexByte(k.ID, '/'); i >= 0 {
		return k.ID[i+1:]
	}
	return k.ID
}

// HasStage reports whether the kind uses the given stage.
func (k Kind) HasStage(s Stage) bool {
	return slices.Contains(k.Stages, s)
}

// ResponseLabel names the recording stage for display.
func (k Kind) ResponseLabel() string {
	if k.CaptureRequired {
		return "recording"
	}
	return "answering"
}

// Validate checks the descriptor for internal consistency.
func (k Kind) Validate() error {
	if k.ID == "" {
		return fmt.Errorf("kind: id is required")
	}
	if !strings.HasPrefix(k.ID, string(k.Section)+"/") {
		return fmt.Errorf("kind %s: id must start with section %q", k.ID, k.Section)
	}
	switch k.Section {
	case SectionListening, SectionReading, SectionSpeaking, SectionWriting:
	default:
		return fmt.Errorf("kind %s: unknown section %q", k.ID, k.Section)
	}
	if !k.Format.Valid() {
		return fmt.Errorf("kind %s: unknown format %q", k.ID, k.Format)
	}
	if !k.HasStage(StageRecording) {
		return fmt.Errorf("kind %s: stages must include %q", k.ID, StageRecording)
	}

	last := -1
	for _, s := range k.Stages {
		idx := slices.Index(stageOrder, s)
		if idx < 0 {
			return fmt.Errorf("kind %s: unknown stage %q", k.ID, s)
		}
		if idx <= last {
			return fmt.Errorf("kind %s: stages out of order or repeated", k.ID)
		}
		last = idx
	}

	if k.CaptureRequired && k.Format != FormatOpenSpeech {
		return fmt.Errorf("kind %s: only open_speech kinds may require capture", k.ID)
	}
	if k.Format == FormatOpenSpeech && !k.CaptureRequired {
		return fmt.Errorf("kind %s: open_speech kinds must require capture", k.ID)
	}
	if k.PreparationSeconds < 0 || k.CountdownSeconds < 0 || k.ResponseSeconds < 0 {
		return fmt.Errorf("kind %s: durations must not be negative", k.ID)
	}
	if k.Format.Objective() && k.MaxScore != 0 {
		return fmt.Errorf("kind %s: max_score only applies to open formats", k.ID)
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
