package session

import "time"

// Summary is the outcome of one settled submission, used for the event
// log and the headless drill output.
type Summary struct {
	Key        string
	KindID     string
	Generation int
	Elapsed    time.Duration
	Scored     bool
	Percent    float64
	Correct    int
	Total      int
	Feedback   string
	Notice     string
}

// BuildSummary creates a Summary from a settled state.
func BuildSummary(s State) *Summary {
	var secs int
	for _, n := range s.Elapsed {
		secs += n
	}

	sum := &Summary{
		Key:        s.Plan.Record.Key(),
		KindID:     s.Kind().ID,
		Generation: s.Generation,
		Elapsed:    time.Duration(secs) * time.Second,
		Notice:     s.Notice,
	}
	if r := s.Result; r != nil {
		sum.Scored = true
		sum.Percent = r.Percent
		sum.Correct = r.Correct
		sum.Total = r.Total
		sum.Feedback = r.Feedback
	}
	return sum
}
