package pricing

import (
	"aureus/internal/logging"
	"aureus/internal/policy"
	"aureus/internal/spec"
)

// Kernel is the SPK pricing kernel: it prices specifications, enforces the
// policy budget, and attaches fallback alternatives to rejections.
type Kernel struct {
	costModel    *LinearCostModel
	enforcer     *BudgetEnforcer
	alternatives *AlternativeGenerator
}

// NewKernel creates a pricing kernel with the default cost model and
// thresholds.
func NewKernel() *Kernel {
	return &Kernel{
		costModel:    NewLinearCostModel(),
		enforcer:     NewBudgetEnforcer(),
		alternatives: &AlternativeGenerator{},
	}
}

// NewKernelWith creates a pricing kernel with explicit components, for
// configurations that override the default weights or thresholds.
func NewKernelWith(model *LinearCostModel, enforcer *BudgetEnforcer) *Kernel {
	return &Kernel{
		costModel:    model,
		enforcer:     enforcer,
		alternatives: &AlternativeGenerator{},
	}
}

// Price prices one specification against the policy budget. The LOC delta
// is the primary budget metric; the total carries the full risk-adjusted
// complexity cost. Alternatives are attached only on rejection.
func (k *Kernel) Price(s *spec.Specification, pol *policy.Policy) Cost {
	loc := s.Budgets.MaxLOCDelta
	deps := s.Budgets.MaxNewDependencies
	abstractions := s.Budgets.MaxNewAbstractions

	base, security := k.costModel.CalculateTotalCost(loc, deps, abstractions, s.RiskLevel)
	total := base + security

	status := k.enforcer.CheckBudget(float64(loc), float64(pol.Budgets.MaxLOC))

	var alternatives []Alternative
	if !status.CanProceed {
		exceededBy := loc - pol.Budgets.MaxLOC
		alternatives = k.alternatives.GenerateAlternatives(s, exceededBy)
	}

	logging.Pricing("priced spec: total=%.1f (base=%.1f security=%.1f) status=%s usage=%.1f%%",
		total, base, security, status.Status, status.UsagePercentage)

	return Cost{
		LOC:          float64(loc),
		Dependencies: float64(deps),
		Abstractions: float64(abstractions),
		Total:        total,
		Security:     security,
		WithinBudget: status.CanProceed,
		BudgetStatus: status.Status,
		Alternatives: alternatives,
	}
}
