package values

import (
	"time"

	"aureus/internal/logging"
)

// OptimizationTarget names the posture the whole system optimizes for.
// Intent extraction may switch the target; everything else reads it.
const (
	TargetMaximizeQuality = "maximize_quality"
	TargetMaximizeSpeed   = "maximize_speed"
	TargetBalance         = "balance"
)

// State is the evaluation context for an action: where the work happens and
// what already exists there.
type State struct {
	Workspace        string            `json:"workspace"`
	ExistingPatterns []string          `json:"existing_patterns,omitempty"`
	Files            map[string]string `json:"files,omitempty"`
}

// Action is a proposed change to be scored. Payload carries the produced
// artifact (typically source text); Patterns lists the idioms it introduces.
type Action struct {
	AgentID     string   `json:"agent_id"`
	Description string   `json:"description"`
	Payload     string   `json:"payload"`
	Patterns    []string `json:"patterns,omitempty"`
	LOCDelta    int      `json:"loc_delta"`
}

// GlobalValueFunction is the single shared objective every agent is scored
// against. Goals are weighted; constraints are hard numeric limits.
type GlobalValueFunction struct {
	Version            string             `json:"version"`
	Goals              []GlobalGoal       `json:"goals"`
	Constraints        map[string]float64 `json:"constraints"`
	OptimizationTarget string             `json:"optimization_target"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// scorer evaluates one goal dimension for a state/action pair. The registry
// below is closed: goal types without a dedicated scorer get a neutral 0.5.
type scorer func(State, Action) float64

var scorers = map[GoalType]scorer{
	GoalCodeQuality:     scoreCodeQuality,
	GoalMaintainability: scoreMaintainability,
	GoalSimplicity:      scoreSimplicity,
	GoalConsistency:     scoreConsistency,
}

const neutralScore = 0.5

// ScoreGoal evaluates a single goal dimension in [0,1].
func ScoreGoal(goal GoalType, state State, action Action) float64 {
	if fn, ok := scorers[goal]; ok {
		return fn(state, action)
	}
	return neutralScore
}

// Evaluate computes the weighted average of all goal scores. A function with
// no goals (or all-zero weights) scores neutral.
func (vf *GlobalValueFunction) Evaluate(state State, action Action) float64 {
	var weighted, total float64
	for _, goal := range vf.Goals {
		weighted += goal.Weight * ScoreGoal(goal.GoalType, state, action)
		total += goal.Weight
	}
	if total == 0 {
		return neutralScore
	}
	score := weighted / total
	logging.ValuesDebug("evaluated action by %s: score=%.3f", action.AgentID, score)
	return score
}

// CheckThresholdViolations returns the goals whose individual score falls
// below their configured threshold.
func (vf *GlobalValueFunction) CheckThresholdViolations(state State, action Action) []GoalType {
	var violated []GoalType
	for _, goal := range vf.Goals {
		if ScoreGoal(goal.GoalType, state, action) < goal.Threshold {
			violated = append(violated, goal.GoalType)
		}
	}
	return violated
}

// GoalWeight returns the weight of the named goal, or zero if absent.
func (vf *GlobalValueFunction) GoalWeight(goal GoalType) float64 {
	for _, g := range vf.Goals {
		if g.GoalType == goal {
			return g.Weight
		}
	}
	return 0
}
