package session

import "github.com/abhisek/langdrill/internal/exercise"

// Plan is the resolved lifecycle for one record: the timed phases in
// order and their budgets.
type Plan struct {
	Kind    exercise.Kind
	Record  *exercise.Record
	Budgets exercise.Budgets

	// Phases lists the timed phases the session walks through between
	// Ready and Completed. Recording is always last.
	Phases []Phase
}

// NewPlan resolves budgets from the record and kind. Preparation and
// countdown stages with a zero budget are dropped; recording is kept and
// left untimed when its budget is zero.
func NewPlan(kind exercise.Kind, rec *exercise.Record) *Plan {
	p := &Plan{Kind: kind, Record: rec, Budgets: rec.ResolvedBudgets(kind)}
	for _, st := range kind.Stages {
		if st != exercise.StageRecording && p.Budgets.For(st) == 0 {
			continue
		}
		p.Phases = append(p.Phases, phaseForStage(st))
	}
	return p
}

// Budget returns the seconds allotted to phase; 0 means untimed.
func (p *Plan) Budget(ph Phase) int {
	switch ph {
	case PhasePreparation:
		return p.Budgets.Preparation
	case PhaseCountdown:
		return p.Budgets.Countdown
	case PhaseRecording:
		return p.Budgets.Response
	}
	return 0
}

// Next returns the phase after ph, or PhaseCompleted after the last one.
func (p *Plan) Next(ph Phase) Phase {
	if ph == PhaseReady {
		return p.Phases[0]
	}
	for i, x := range p.Phases {
		if x == ph && i+1 < len(p.Phases) {
			return p.Phases[i+1]
		}
	}
	return PhaseCompleted
}

// Has reports whether ph is part of the plan.
func (p *Plan) Has(ph Phase) bool {
	for _, x := range p.Phases {
		if x == ph {
			return true
		}
	}
	return false
}

func phaseForStage(st exercise.Stage) Phase {
	switch st {
	case exercise.StagePreparation:
		return PhasePreparation
	case exercise.StageCountdown:
		return PhaseCountdown
	}
	return PhaseRecording
}
