// Package pricing implements the SPK stage: a linear complexity-cost model,
// graduated budget enforcement, and fallback alternative generation for
// over-budget specifications.
package pricing

import "aureus/internal/spec"

// Default cost model weights. LOC is the baseline unit; external
// dependencies and new abstractions are priced far above it.
const (
	DefaultLOCWeight         = 1.0
	DefaultDependencyWeight  = 50.0
	DefaultAbstractionWeight = 20.0
)

// LinearCostModel prices complexity as a weighted sum of size, dependency,
// and abstraction estimates, then scales by the risk multiplier.
type LinearCostModel struct {
	LOCWeight         float64
	DependencyWeight  float64
	AbstractionWeight float64
}

// NewLinearCostModel returns a cost model with the default weights.
func NewLinearCostModel() *LinearCostModel {
	return &LinearCostModel{
		LOCWeight:         DefaultLOCWeight,
		DependencyWeight:  DefaultDependencyWeight,
		AbstractionWeight: DefaultAbstractionWeight,
	}
}

// LOCCost prices estimated lines of code.
func (m *LinearCostModel) LOCCost(loc int) float64 {
	return float64(loc) * m.LOCWeight
}

// DependencyCost prices estimated new external dependencies.
func (m *LinearCostModel) DependencyCost(deps int) float64 {
	return float64(deps) * m.DependencyWeight
}

// AbstractionCost prices estimated new abstractions (types, interfaces).
func (m *LinearCostModel) AbstractionCost(abstractions int) float64 {
	return float64(abstractions) * m.AbstractionWeight
}

// CalculateTotalCost returns the base complexity cost and the additional
// security surcharge implied by the risk level. The surcharge is the base
// cost scaled by (multiplier - 1), so low-risk work carries none.
func (m *LinearCostModel) CalculateTotalCost(loc, deps, abstractions int, risk spec.RiskLevel) (base, security float64) {
	base = m.LOCCost(loc) + m.DependencyCost(deps) + m.AbstractionCost(abstractions)
	security = base * (risk.Multiplier() - 1.0)
	return base, security
}

// Cost is the priced outcome for one specification. It is ephemeral: paired
// 1:1 with the specification it prices and never persisted.
type Cost struct {
	LOC          float64       `json:"loc"`
	Dependencies float64       `json:"dependencies"`
	Abstractions float64       `json:"abstractions"`
	Total        float64       `json:"total"`
	Security     float64       `json:"security"`
	WithinBudget bool          `json:"within_budget"`
	BudgetStatus Status        `json:"budget_status"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}
