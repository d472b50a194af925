package pricing

import (
	"fmt"

	"aureus/internal/spec"
)

// Alternative is one fallback strategy offered when a specification is over
// budget. Savings are independent estimates, not cumulative.
type Alternative struct {
	Strategy         string `json:"strategy"`
	Description      string `json:"description"`
	EstimatedSavings int    `json:"estimated_savings"`
	Implementation   string `json:"implementation"`
}

// AlternativeGenerator produces the six fixed fallback strategies. Order is
// fixed as listed; callers must not re-rank by savings.
type AlternativeGenerator struct{}

// GenerateAlternatives proposes ways to bring the specification back within
// budget. The implementation detail of each strategy is grounded in the
// concrete fields of the spec rather than generic advice.
func (g *AlternativeGenerator) GenerateAlternatives(s *spec.Specification, exceededBy int) []Alternative {
	if exceededBy < 0 {
		exceededBy = 0
	}

	return []Alternative{
		{
			Strategy:         "reduce_scope",
			Description:      "Remove non-essential features from specification",
			EstimatedSavings: int(float64(exceededBy) * 0.4),
			Implementation: fmt.Sprintf(
				"Review the %d success criteria and drop optional requirements",
				len(s.SuccessCriteria)),
		},
		{
			Strategy:         "simplify_architecture",
			Description:      "Use simpler patterns with fewer abstractions",
			EstimatedSavings: int(float64(exceededBy) * 0.3),
			Implementation: fmt.Sprintf(
				"Collapse the %d budgeted abstractions into straightforward implementations",
				s.Budgets.MaxNewAbstractions),
		},
		{
			Strategy:         "reuse_existing",
			Description:      "Leverage existing modules instead of creating new ones",
			EstimatedSavings: int(float64(exceededBy) * 0.5),
			Implementation: fmt.Sprintf(
				"Search the codebase for components covering %q and extend them",
				s.Intent),
		},
		{
			Strategy:         "defer_dependencies",
			Description:      "Implement core functionality without external libraries",
			EstimatedSavings: int(float64(exceededBy) * 0.25),
			Implementation: fmt.Sprintf(
				"Defer the %d budgeted new dependencies to a later phase",
				s.Budgets.MaxNewDependencies),
		},
		{
			Strategy:         "split_phases",
			Description:      "Deliver functionality incrementally across multiple phases",
			EstimatedSavings: int(float64(exceededBy) * 0.6),
			Implementation: fmt.Sprintf(
				"Create Phase 1 within the %d-line budget, defer enhancements",
				s.Budgets.MaxLOCDelta),
		},
		{
			Strategy:         "optimize_implementation",
			Description:      "Use more efficient algorithms and data structures",
			EstimatedSavings: int(float64(exceededBy) * 0.2),
			Implementation: fmt.Sprintf(
				"Profile critical paths; at %s risk, keep the rewrite surface small",
				s.RiskLevel),
		},
	}
}
