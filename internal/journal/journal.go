// Package journal persists settled submissions: the per-kind progress
// record and an entry in the attempt event log.
package journal

import (
	"context"
	"fmt"

	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/session"
	"github.com/abhisek/langdrill/internal/store"
)

// Journal records the outcome of each settled submission. Either sink may
// be nil.
type Journal struct {
	Tracker   *progress.Tracker
	Events    store.EventRepo
	SessionID string
	Log       *logger.Logger
}

// Entry is what Settled wrote.
type Entry struct {
	Summary  *session.Summary
	Progress progress.Record
}

// Settled records s. Progress is keyed by kind ID so every record of a kind
// shares one accuracy and streak.
func (j *Journal) Settled(ctx context.Context, s session.State) (*Entry, error) {
	log := j.Log
	if log == nil {
		log = logger.Nop()
	}

	sum := session.BuildSummary(s)
	entry := &Entry{Summary: sum}

	if j.Tracker != nil {
		rec, err := j.Tracker.Record(ctx, sum.KindID, s.Result)
		if err != nil {
			return entry, fmt.Errorf("record progress: %w", err)
		}
		entry.Progress = rec
	}

	if j.Events != nil {
		data := store.AttemptEventData{
			SessionID:   j.SessionID,
			KindID:      sum.KindID,
			RecordID:    s.Plan.Record.ID,
			Generation:  sum.Generation,
			Scored:      sum.Scored,
			Percent:     sum.Percent,
			Correct:     sum.Correct,
			Total:       sum.Total,
			ElapsedSecs: int(sum.Elapsed.Seconds()),
			Feedback:    sum.Feedback,
			Notice:      sum.Notice,
		}
		if s.Result != nil {
			data.Source = string(s.Result.Source)
		}
		if err := j.Events.AppendAttempt(ctx, data); err != nil {
			return entry, fmt.Errorf("append attempt: %w", err)
		}
	}

	log.Info("submission settled",
		"key", sum.Key,
		"scored", sum.Scored,
		"percent", sum.Percent,
		"streak", entry.Progress.Streak)
	return entry, nil
}

// OnSettled adapts j to session.Options.OnSettled. Failures are logged; the
// controller has nowhere to report them.
func (j *Journal) OnSettled(ctx context.Context) func(session.State) {
	return func(s session.State) {
		if _, err := j.Settled(ctx, s); err != nil && j.Log != nil {
			j.Log.Warn("failed to persist submission", "error", err)
		}
	}
}
