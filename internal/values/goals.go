// Package values implements the shared value function that scores proposed
// actions against global goals, plus per-agent local value functions and the
// drift detection that keeps the two in agreement.
package values

import "fmt"

// GoalType identifies one dimension of the global value function.
type GoalType string

const (
	GoalCodeQuality     GoalType = "code_quality"
	GoalMaintainability GoalType = "maintainability"
	GoalPerformance     GoalType = "performance"
	GoalSecurity        GoalType = "security"
	GoalTestability     GoalType = "testability"
	GoalSimplicity      GoalType = "simplicity"
	GoalConsistency     GoalType = "consistency"
)

// Valid reports whether g is a known goal type.
func (g GoalType) Valid() bool {
	switch g {
	case GoalCodeQuality, GoalMaintainability, GoalPerformance,
		GoalSecurity, GoalTestability, GoalSimplicity, GoalConsistency:
		return true
	}
	return false
}

// GlobalGoal is one weighted objective in the shared value function.
// Weight controls its contribution to the aggregate score; Threshold is the
// minimum per-goal score below which the goal counts as violated.
type GlobalGoal struct {
	GoalType    GoalType           `json:"goal_type"`
	Weight      float64            `json:"weight"`
	Threshold   float64            `json:"threshold"`
	Description string             `json:"description"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func (g GlobalGoal) validate() error {
	if !g.GoalType.Valid() {
		return fmt.Errorf("unknown goal type %q", g.GoalType)
	}
	if g.Weight < 0 || g.Weight > 1 {
		return fmt.Errorf("goal %s: weight %.2f out of [0,1]", g.GoalType, g.Weight)
	}
	if g.Threshold < 0 || g.Threshold > 1 {
		return fmt.Errorf("goal %s: threshold %.2f out of [0,1]", g.GoalType, g.Threshold)
	}
	return nil
}
