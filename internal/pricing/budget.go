package pricing

import "fmt"

// Status classifies a cost against a budget limit.
type Status string

const (
	StatusApproved Status = "approved" // <=70% of budget
	StatusAdvisory Status = "advisory" // >70% and <=85%
	StatusWarning  Status = "warning"  // >85% and <=100%
	StatusRejected Status = "rejected" // >100%
)

// BudgetStatus is the tagged enforcement decision for one check. Budget
// outcomes are ordinary results, not errors.
type BudgetStatus struct {
	Status          Status  `json:"status"`
	UsagePercentage float64 `json:"usage_percentage"`
	CanProceed      bool    `json:"can_proceed"`
	Message         string  `json:"message"`
}

// BudgetEnforcer classifies costs against graduated thresholds:
// advisory at 70%, warning at 85%, rejection above 100%. All boundaries are
// strict greater-than, so exactly 100% usage still classifies as warning.
type BudgetEnforcer struct {
	AdvisoryThreshold  float64
	WarningThreshold   float64
	RejectionThreshold float64
}

// NewBudgetEnforcer returns an enforcer with the standard thresholds.
func NewBudgetEnforcer() *BudgetEnforcer {
	return &BudgetEnforcer{
		AdvisoryThreshold:  0.70,
		WarningThreshold:   0.85,
		RejectionThreshold: 1.00,
	}
}

// CheckBudget classifies an estimated cost against a budget limit. A zero
// limit rejects immediately rather than dividing by zero.
func (e *BudgetEnforcer) CheckBudget(estimatedCost, budgetLimit float64) BudgetStatus {
	if budgetLimit == 0 {
		return BudgetStatus{
			Status:          StatusRejected,
			UsagePercentage: 100.0,
			CanProceed:      false,
			Message:         "Budget limit is zero",
		}
	}

	ratio := estimatedCost / budgetLimit
	pct := ratio * 100.0

	switch {
	case ratio > e.RejectionThreshold:
		return BudgetStatus{
			Status:          StatusRejected,
			UsagePercentage: pct,
			CanProceed:      false,
			Message:         fmt.Sprintf("Budget exceeded: %.1f%% of limit. Operation rejected.", pct),
		}
	case ratio > e.WarningThreshold:
		return BudgetStatus{
			Status:          StatusWarning,
			UsagePercentage: pct,
			CanProceed:      true,
			Message:         fmt.Sprintf("Warning: %.1f%% of budget. Justification recommended.", pct),
		}
	case ratio > e.AdvisoryThreshold:
		return BudgetStatus{
			Status:          StatusAdvisory,
			UsagePercentage: pct,
			CanProceed:      true,
			Message:         fmt.Sprintf("Advisory: %.1f%% of budget. Consider alternatives.", pct),
		}
	default:
		return BudgetStatus{
			Status:          StatusApproved,
			UsagePercentage: pct,
			CanProceed:      true,
			Message:         fmt.Sprintf("Within budget: %.1f%% used.", pct),
		}
	}
}
