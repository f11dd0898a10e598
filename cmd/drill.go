package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/journal"
	"github.com/abhisek/langdrill/internal/scoring"
	"github.com/abhisek/langdrill/internal/session"
	"github.com/spf13/cobra"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Run one exercise without the TUI",
	Long: `Run one exercise record headlessly and print the result.

Typed answers are given with --answer, once per blank or selected option,
or once with the full text for open responses. Speaking exercises read a
pre-recorded clip from --audio.`,
	Example: `  langdrill drill --kind reading/multiple-choice-single --id 1 --answer B
  langdrill drill --kind reading/fill-blanks --id 1 --answer went --answer home
  langdrill drill --kind speaking/read-aloud --id 1 --audio take1.wav --fast`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kindID, _ := cmd.Flags().GetString("kind")
		id, _ := cmd.Flags().GetInt("id")
		answers, _ := cmd.Flags().GetStringArray("answer")
		audio, _ := cmd.Flags().GetString("audio")
		fast, _ := cmd.Flags().GetBool("fast")

		env, err := buildEnv(cmd, true)
		if err != nil {
			return err
		}
		defer env.close()

		kind, ok := env.registry.Get(kindID)
		if !ok {
			return fmt.Errorf("unknown exercise kind %q (see langdrill exercises list)", kindID)
		}
		rec, ok := env.catalog.Record(kindID, id)
		if !ok {
			return fmt.Errorf("no record %d for %s", id, kindID)
		}
		if kind.CaptureRequired && audio == "" {
			return fmt.Errorf("%s needs a recording; pass --audio", kindID)
		}

		state, err := session.New(kind, rec)
		if err != nil {
			return err
		}

		var recorder capture.Recorder = capture.Unavailable{}
		if audio != "" {
			recorder = capture.NewFileRecorder(audio)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), drillTimeout(env.cfg.Evaluator.Timeout, rec.ResolvedBudgets(kind).Response, fast))
		defer cancel()

		entries := make(chan *journal.Entry, 1)
		ctrl := session.NewController(state, session.Options{
			Recorder:  recorder,
			Player:    capture.LogPlayer{Log: env.log},
			Evaluator: env.evaluator,
			Logger:    env.log,
			OnSettled: func(s session.State) {
				entry, err := env.journal.Settled(ctx, s)
				if err != nil {
					env.log.Warn("failed to persist submission", "error", err)
				}
				entries <- entry
			},
		})

		final, err := drive(ctx, ctrl, answers, fast)
		if err != nil {
			return err
		}

		var entry *journal.Entry
		select {
		case entry = <-entries:
		default:
		}
		printDrillResult(cmd.OutOrStdout(), final, entry)
		return nil
	},
}

func init() {
	drillCmd.Flags().StringP("kind", "k", "", "Exercise kind ID, e.g. reading/fill-blanks")
	drillCmd.Flags().Int("id", 1, "Record ID within the kind")
	drillCmd.Flags().StringArrayP("answer", "a", nil, "Answer value (repeatable)")
	drillCmd.Flags().String("audio", "", "Audio file to submit for speaking exercises")
	drillCmd.Flags().Bool("fast", false, "Skip preparation and countdown instead of waiting them out")
	_ = drillCmd.MarkFlagRequired("kind")
}

// drillTimeout bounds a headless run: the response budget when not skipping,
// the evaluator timeout and some slack for capture and countdowns.
func drillTimeout(evalTimeout time.Duration, responseSecs int, fast bool) time.Duration {
	d := evalTimeout + time.Minute
	if !fast {
		d += time.Duration(responseSecs) * time.Second
	}
	return d
}

// drive runs ctrl until the submission settles and returns the final state.
// Each phase is acted on once.
func drive(ctx context.Context, ctrl *session.Controller, answers []string, fast bool) (session.State, error) {
	runCtx, stop := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- ctrl.Run(runCtx) }()
	defer func() {
		stop()
		<-runErr
	}()

	if err := ctrl.Dispatch(ctx, session.Start{}); err != nil {
		return ctrl.State(), fmt.Errorf("start: %w", err)
	}

	type step struct {
		gen   int
		phase session.Phase
	}
	acted := make(map[step]bool)
	act := func(s session.State, ev session.Event) error {
		key := step{s.Generation, s.Phase}
		if acted[key] {
			return nil
		}
		acted[key] = true
		return ctrl.Dispatch(ctx, ev)
	}

	for s := range ctrl.Updates() {
		var err error
		switch {
		case s.Blocked:
			return s, fmt.Errorf("capture unavailable: %s", s.Warning)

		case s.Phase == session.PhasePreparation, s.Phase == session.PhaseCountdown:
			if fast && !s.Acquiring {
				err = act(s, session.Skip{})
			}

		case s.Phase == session.PhaseRecording:
			if s.Kind().CaptureRequired {
				if !s.Acquiring && !s.Finalizing {
					err = act(s, session.Stop{})
				}
				break
			}
			if err = ctrl.Dispatch(ctx, session.Answer{Values: answers}); err == nil {
				err = act(s, session.Submit{})
			}

		case s.Phase == session.PhaseCompleted:
			if s.Kind().CaptureRequired && !s.Finalizing && s.Clip == nil {
				return s, errors.New(s.Notice)
			}
			if !s.Finalizing {
				err = act(s, session.Submit{})
			}

		case s.Phase == session.PhaseSubmitted:
			if !s.Evaluating {
				return s, nil
			}
		}
		if err != nil {
			return s, err
		}
	}

	// Updates closes only when Run exits early.
	return ctrl.State(), fmt.Errorf("drill did not finish: %w", context.Cause(ctx))
}

func printDrillResult(w io.Writer, s session.State, entry *journal.Entry) {
	sum := session.BuildSummary(s)
	fmt.Fprintf(w, "%-10s %s\n", "record", sum.Key)
	fmt.Fprintf(w, "%-10s %s\n", "time", sum.Elapsed)

	res := s.Result
	if res == nil {
		fmt.Fprintf(w, "%-10s not scored\n", "score")
		if sum.Notice != "" {
			fmt.Fprintf(w, "%-10s %s\n", "notice", sum.Notice)
		}
		return
	}

	verdict := "KEEP PRACTISING"
	if res.Passed() {
		verdict = "PASS"
	}
	score := fmt.Sprintf("%.0f%%", res.Percent)
	if res.Total > 0 {
		score += fmt.Sprintf(" (%d/%d)", res.Correct, res.Total)
	}
	fmt.Fprintf(w, "%-10s %s  %s\n", "score", score, verdict)

	for _, b := range res.Blanks {
		mark := "✓"
		if !b.Correct {
			mark = "✗"
		}
		fmt.Fprintf(w, "  [%d] %s %-16s expected %s\n", b.ID, mark, b.Given, b.Expected)
	}
	if res.Source == scoring.SourceRemote && res.Transcript != "" {
		fmt.Fprintf(w, "%-10s %s\n", "heard", res.Transcript)
	}
	if res.Feedback != "" {
		fmt.Fprintf(w, "%-10s %s\n", "feedback", strings.TrimSpace(res.Feedback))
	}
	if entry != nil && entry.Progress.Completed > 0 {
		p := entry.Progress
		fmt.Fprintf(w, "%-10s done %d  accuracy %.0f%%  streak %d\n", "progress", p.Completed, p.Accuracy*100, p.Streak)
	}
}
