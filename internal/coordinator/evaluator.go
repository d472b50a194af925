package coordinator

import (
	"aureus/internal/pricing"
	"aureus/internal/spec"
	"aureus/internal/values"
)

// Candidate is one priced specification variant.
type Candidate struct {
	Spec *spec.Specification `json:"spec"`
	Cost pricing.Cost        `json:"cost"`
}

// Evaluator scores specification candidates against the global value
// function, so selection is driven by alignment rather than cost alone.
type Evaluator struct {
	memory *values.Memory
}

// NewEvaluator creates an evaluator backed by the shared value memory.
func NewEvaluator(memory *values.Memory) *Evaluator {
	return &Evaluator{memory: memory}
}

// EvaluateSpec scores how well one specification aligns with global goals.
func (e *Evaluator) EvaluateSpec(s *spec.Specification) float64 {
	vf := e.memory.ValueFunction()

	action := values.Action{
		Description: s.Intent,
		LOCDelta:    s.Budgets.MaxLOCDelta,
	}
	return vf.Evaluate(values.State{}, action)
}

// SelectBest returns the index of the within-budget candidate with the
// highest alignment score, plus that score. Comparison is strictly
// greater-than, so the earliest candidate wins ties. Returns -1 when no
// candidate fits the budget.
func (e *Evaluator) SelectBest(candidates []Candidate) (int, float64) {
	best := -1
	bestScore := -1.0

	for i, c := range candidates {
		if !c.Cost.WithinBudget {
			continue
		}
		score := e.EvaluateSpec(c.Spec)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best, bestScore
}
