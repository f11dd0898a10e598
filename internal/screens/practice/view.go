package practice

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/scoring"
	"github.com/abhisek/langdrill/internal/session"
	"github.com/abhisek/langdrill/internal/ui/components"
	"github.com/abhisek/langdrill/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := width - 4
	if cw > 90 {
		cw = 90
	}
	if cw < 20 {
		cw = 20
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(cw))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	if s.kind.Instructions != "" {
		b.WriteString(wrap(theme.Hint, cw).Render(s.kind.Instructions))
		b.WriteString("\n\n")
	}

	b.WriteString(s.renderPhase(cw))
	b.WriteString("\n\n")
	b.WriteString(s.renderBody(cw))

	if status := s.renderStatus(cw); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}
	if res := s.renderResult(cw); res != "" {
		b.WriteString("\n\n")
		b.WriteString(res)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}

func (s *Screen) renderInfoLine(cw int) string {
	section := lipgloss.NewStyle().
		Foreground(theme.SectionColor(string(s.kind.Section))).
		Bold(true).
		Render(strings.ToUpper(string(s.kind.Section)))

	title := s.rec.Title
	if title == "" {
		title = fmt.Sprintf("Question %d", s.rec.ID)
	}
	left := section + "  " + lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title)

	right := ""
	if s.state.Generation > 0 {
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("attempt %d", s.state.Generation+1))
	}
	pad := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *Screen) renderPhase(cw int) string {
	st := s.state
	label := phaseLabel(s.kind, st.Phase)

	if !st.Timed() || st.Phase == session.PhaseCompleted || st.Phase == session.PhaseSubmitted || st.Phase == session.PhaseReady {
		return theme.Selected.Render(label)
	}

	budget := st.Plan.Budget(st.Phase)
	timer := theme.Timer
	if st.Remaining <= 5 {
		timer = theme.TimerLow
	}
	head := theme.Selected.Render(label) + "  " + timer.Render(clock(st.Remaining))

	bar := components.TimeMeter(st.Remaining, budget, cw/2).View()
	return head + "\n" + bar
}

func phaseLabel(k exercise.Kind, ph session.Phase) string {
	switch ph {
	case session.PhaseReady:
		return "READY"
	case session.PhasePreparation:
		return "PREPARE"
	case session.PhaseCountdown:
		return "GET READY"
	case session.PhaseRecording:
		return strings.ToUpper(k.ResponseLabel())
	case session.PhaseCompleted:
		return "DONE"
	case session.PhaseSubmitted:
		return "SUBMITTED"
	}
	return strings.ToUpper(ph.String())
}

func (s *Screen) renderBody(cw int) string {
	st := s.state
	var parts []string

	if s.rec.AudioURL != "" && st.Phase != session.PhaseReady {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Cyan).Render("♪ "+s.rec.AudioURL))
	}

	switch c := s.rec.Content.(type) {
	case exercise.FillBlanks:
		if st.Phase == session.PhaseReady {
			parts = append(parts, theme.Hint.Render("Press Enter to begin."))
			break
		}
		parts = append(parts, wrap(lipgloss.NewStyle(), cw).Render(s.blanks.View()))

	case exercise.Choice:
		if s.rec.Prompt != "" && s.rec.Prompt != c.Stem {
			parts = append(parts, wrap(theme.Body, cw).Render(s.rec.Prompt))
		}
		if st.Phase == session.PhaseReady {
			parts = append(parts, theme.Hint.Render("Press Enter to begin."))
			break
		}
		parts = append(parts, s.choices.View())

	case exercise.OpenResponse:
		prompt := c.Prompt
		if prompt == "" {
			prompt = s.rec.Prompt
		}
		// Listening passages are heard, not read, until submission.
		if s.kind.Section != exercise.SectionListening || st.Submitted() {
			parts = append(parts, wrap(theme.Body, cw).Render(prompt))
		}
		if c.Spoken {
			parts = append(parts, s.renderRecorder())
		} else if st.Phase != session.PhaseReady {
			s.essay.SetWidth(cw)
			parts = append(parts, s.essay.View())
			parts = append(parts, theme.Hint.Render(fmt.Sprintf("%d words", len(strings.Fields(s.essay.Value())))))
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *Screen) renderRecorder() string {
	st := s.state
	switch {
	case st.Acquiring:
		return theme.Hint.Render("Opening microphone...")
	case st.Finalizing:
		return theme.Hint.Render("Saving recording...")
	case st.Phase == session.PhaseRecording && !st.Blocked:
		return theme.Incorrect.Render("● REC")
	case st.Clip != nil:
		return theme.Correct.Render(fmt.Sprintf("✓ Recorded %s", st.Clip.Duration.Round(100*time.Millisecond)))
	}
	return ""
}

func (s *Screen) renderStatus(cw int) string {
	st := s.state
	var lines []string
	if st.Warning != "" {
		lines = append(lines, wrap(theme.Warn, cw).Render("⚠ "+st.Warning))
	}
	if st.Notice != "" {
		lines = append(lines, wrap(theme.Incorrect, cw).Render(st.Notice))
	}
	if s.rejected != "" {
		lines = append(lines, theme.Hint.Render(s.rejected))
	}
	if st.Evaluating {
		lines = append(lines, theme.Hint.Render("Evaluating your response..."))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderResult(cw int) string {
	res := s.state.Result
	if res == nil {
		return ""
	}
	var b strings.Builder

	verdict := theme.Incorrect.Render("KEEP PRACTISING")
	if res.Passed() {
		verdict = theme.Correct.Render("PASS")
	}
	b.WriteString(fmt.Sprintf("%s  %s", verdict, scoreLine(res)))
	b.WriteString("\n")
	b.WriteString(components.ScoreMeter(res.Ratio(), cw/2).View())

	if res.Feedback != "" {
		b.WriteString("\n\n")
		b.WriteString(wrap(theme.Body, cw).Render(res.Feedback))
	}
	if res.Transcript != "" {
		b.WriteString("\n\n")
		b.WriteString(wrap(theme.Hint, cw).Render("You said: " + res.Transcript))
	}
	if s.rec.Transcript != "" {
		b.WriteString("\n\n")
		b.WriteString(wrap(theme.Hint, cw).Render("Transcript: " + s.rec.Transcript))
	}
	return components.SectionCard(b.String(), cw, string(s.kind.Section))
}

func scoreLine(res *scoring.Result) string {
	if res.Total > 0 {
		return fmt.Sprintf("%d/%d correct (%.0f%%)", res.Correct, res.Total, res.Percent)
	}
	return fmt.Sprintf("%.1f/%.0f (%.0f%%)", res.Score, res.MaxScore, res.Percent)
}

func clock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func wrap(style lipgloss.Style, width int) lipgloss.Style {
	return style.Width(width)
}

// Status implements screen.StatusProvider with the running phase clock.
func (s *Screen) Status() string {
	st := s.state
	switch st.Phase {
	case session.PhasePreparation, session.PhaseCountdown, session.PhaseRecording:
		if st.Timed() {
			return phaseLabel(s.kind, st.Phase) + " " + clock(st.Remaining)
		}
	}
	return ""
}
