package fixture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langdrill/internal/exercise"
)

func kind(t *testing.T, id string) exercise.Kind {
	t.Helper()
	reg, err := exercise.Builtin()
	require.NoError(t, err)
	k, ok := reg.Get(id)
	require.True(t, ok, id)
	return k
}

func TestParse_FillBlanksNumbered(t *testing.T) {
	rec, err := Parse(kind(t, "reading/fill-blanks"), Raw{
		ID:       7,
		Question: "The [1] jumped over the [2]",
		Answer:   "fox, fence",
	})
	require.NoError(t, err)

	fb, ok := rec.Content.(exercise.FillBlanks)
	require.True(t, ok)
	assert.Equal(t, "The [1] jumped over the [2]", fb.Text)
	assert.Equal(t, []exercise.Blank{{ID: 1, Answer: "fox"}, {ID: 2, Answer: "fence"}}, fb.Blanks)
	assert.Equal(t, "reading/fill-blanks#7", rec.Key())
}

func TestParse_FillBlanksInputMarkersAndInlineAnswer(t *testing.T) {
	rec, err := Parse(kind(t, "reading/fill-blanks"), Raw{
		ID:       1,
		Question: "Glaciers [input] slowly under their own [INPUT]. (Answer: move, weight)",
	})
	require.NoError(t, err)

	fb := rec.Content.(exercise.FillBlanks)
	assert.Equal(t, "Glaciers [1] slowly under their own [2].", fb.Text)
	assert.Equal(t, "move", fb.Blanks[0].Answer)
	assert.Equal(t, "weight", fb.Blanks[1].Answer)
}

func TestParse_FillBlanksAnswerFieldWins(t *testing.T) {
	rec, err := Parse(kind(t, "reading/fill-blanks"), Raw{
		ID:       1,
		Question: "A [1] day (Answer: bad)",
		Answer:   "good",
	})
	require.NoError(t, err)
	assert.Equal(t, "good", rec.Content.(exercise.FillBlanks).Blanks[0].Answer)
}

func TestParse_ChoiceLabels(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		raw     Raw
		labels  []string
		texts   []string
		correct []string
	}{
		{
			name:    "prefixed options, label answer",
			kind:    "reading/multiple-choice-single",
			raw:     Raw{ID: 1, Question: "Pick one###A) red###B) blue", Answer: "b"},
			labels:  []string{"A", "B"},
			texts:   []string{"red", "blue"},
			correct: []string{"B"},
		},
		{
			name:    "bare options, text answer",
			kind:    "reading/multiple-choice-single",
			raw:     Raw{ID: 1, Question: "Pick one###red###blue###green", Answer: " Green "},
			labels:  []string{"A", "B", "C"},
			texts:   []string{"red", "blue", "green"},
			correct: []string{"C"},
		},
		{
			name:    "multi with inline answer and duplicates",
			kind:    "reading/multiple-choice-multiple",
			raw:     Raw{ID: 1, Question: "Pick some###a. one###b. two###c. three (Answer: A, c, a)"},
			labels:  []string{"A", "B", "C"},
			texts:   []string{"one", "two", "three"},
			correct: []string{"A", "C"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(kind(t, tt.kind), tt.raw)
			require.NoError(t, err)

			c := rec.Content.(exercise.Choice)
			var labels, texts []string
			for _, o := range c.Options {
				labels = append(labels, o.Label)
				texts = append(texts, o.Text)
			}
			assert.Equal(t, tt.labels, labels)
			assert.Equal(t, tt.texts, texts)
			assert.Equal(t, tt.correct, c.Correct)
			assert.Equal(t, "Pick "+map[bool]string{true: "some", false: "one"}[c.Multi], c.Stem)
		})
	}
}

func TestParse_OpenResponse(t *testing.T) {
	rec, err := Parse(kind(t, "speaking/answer-short-question"), Raw{
		ID:       3,
		Question: "What measures temperature?",
		Answer:   "thermometer Transcript: What measures temperature?",
		Audio:    "https://drive.google.com/file/d/abc_123/view?usp=sharing",
	})
	require.NoError(t, err)

	o := rec.Content.(exercise.OpenResponse)
	assert.True(t, o.Spoken)
	assert.Equal(t, "thermometer", o.SampleAnswer)
	assert.Equal(t, "What measures temperature?", o.Transcript)
	assert.Equal(t, "https://drive.google.com/file/d/abc_123/preview", rec.AudioURL)
}

func TestParse_OpenResponseFallsBackToAIAnswer(t *testing.T) {
	rec, err := Parse(kind(t, "writing/essay"), Raw{ID: 1, Question: "Discuss.", AnswerAI: "A model essay."})
	require.NoError(t, err)
	assert.Equal(t, "A model essay.", rec.Content.(exercise.OpenResponse).SampleAnswer)
	assert.Equal(t, exercise.FormatOpenText, rec.Content.Format())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		raw   Raw
		field string
	}{
		{"no id", "reading/fill-blanks", Raw{Question: "a [1]", Answer: "x"}, "id"},
		{"empty question", "reading/fill-blanks", Raw{ID: 1, Answer: "x"}, "question"},
		{"no blanks", "reading/fill-blanks", Raw{ID: 1, Question: "nothing here", Answer: "x"}, "question"},
		{"mixed markers", "reading/fill-blanks", Raw{ID: 1, Question: "[1] and [input]", Answer: "x, y"}, "question"},
		{"gap in numbering", "reading/fill-blanks", Raw{ID: 1, Question: "[1] and [3]", Answer: "x, y"}, "question"},
		{"count mismatch", "reading/fill-blanks", Raw{ID: 1, Question: "[1] and [2]", Answer: "x"}, "answer"},
		{"missing answer", "reading/fill-blanks", Raw{ID: 1, Question: "[1]"}, "answer"},
		{"one option", "reading/multiple-choice-single", Raw{ID: 1, Question: "stem###only", Answer: "A"}, "question"},
		{"unknown answer", "reading/multiple-choice-single", Raw{ID: 1, Question: "stem###x###y", Answer: "Z"}, "answer"},
		{"missing audio", "listening/fill-blanks", Raw{ID: 1, Question: "[1]", Answer: "x"}, "audio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(kind(t, tt.kind), tt.raw)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.field, pe.Field)
			assert.Equal(t, tt.kind, pe.Kind)
		})
	}
}

func TestParseAll_SkipsBadRecords(t *testing.T) {
	data := []byte(`[
		{"id": 1, "question": "The [1] jumped", "answer": "fox"},
		{"id": 2, "question": "no blanks", "answer": "x"},
		{"id": 1, "question": "dup [1]", "answer": "y"},
		{"id": 3, "question": "[1] and [2]", "answer": "a, b"}
	]`)
	recs, err := ParseAll(kind(t, "reading/fill-blanks"), data)
	require.Error(t, err)
	assert.Len(t, recs, 2)
	assert.Len(t, ParseErrors(err), 2)
}

func TestParseAll_BadJSON(t *testing.T) {
	_, err := ParseAll(kind(t, "reading/fill-blanks"), []byte(`{`))
	require.Error(t, err)
	assert.Len(t, ParseErrors(err), 1)
}

func TestPlayableURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://drive.google.com/file/d/XYZ-1/view?usp=sharing", "https://drive.google.com/file/d/XYZ-1/preview"},
		{"https://drive.google.com/open?id=ABC", "https://drive.google.com/file/d/ABC/preview"},
		{"https://drive.google.com/uc?export=download&id=ABC", "https://drive.google.com/file/d/ABC/preview"},
		{"https://example.com/a.mp3", "https://example.com/a.mp3"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlayableURL(tt.in), tt.in)
	}
}
