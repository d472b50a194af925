package values

import "time"

// DefaultValueFunction is the five-goal function every workspace starts
// with. Weights sum to 1.0; thresholds are the floors below which a goal
// counts as violated.
func DefaultValueFunction() *GlobalValueFunction {
	now := time.Now().UTC()
	return &GlobalValueFunction{
		Version: "1.0",
		Goals: []GlobalGoal{
			{
				GoalType:    GoalCodeQuality,
				Weight:      0.30,
				Threshold:   0.70,
				Description: "Code is documented, typed, and handles errors",
			},
			{
				GoalType:    GoalMaintainability,
				Weight:      0.25,
				Threshold:   0.60,
				Description: "Files and functions stay small enough to reason about",
			},
			{
				GoalType:    GoalSimplicity,
				Weight:      0.20,
				Threshold:   0.50,
				Description: "Prefer flat structure and few type definitions",
			},
			{
				GoalType:    GoalConsistency,
				Weight:      0.15,
				Threshold:   0.60,
				Description: "New code follows the patterns already in the workspace",
			},
			{
				GoalType:    GoalTestability,
				Weight:      0.10,
				Threshold:   0.50,
				Description: "Behavior is exercisable by automated tests",
			},
		},
		Constraints: map[string]float64{
			"max_loc":           500,
			"max_complexity":    10,
			"min_test_coverage": 0.8,
		},
		OptimizationTarget: TargetBalance,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
