package values

import (
	"fmt"
	"strings"
)

// Agreement band and drift floor for global/local score comparison.
const (
	agreementBand = 0.3
	driftFloor    = 0.5
)

// LocalValueFunction is an agent's private view of the shared objective.
// Local goals are derived from the agent's role; the alignment score tracks
// how closely the agent's judgments match the global function.
type LocalValueFunction struct {
	AgentID        string             `json:"agent_id"`
	AgentRole      string             `json:"agent_role"`
	LocalGoals     map[string]float64 `json:"local_goals"`
	AlignmentScore float64            `json:"alignment_score"`
}

// NewLocalValueFunction derives a local function from an agent role. Unknown
// roles get a single generic goal.
func NewLocalValueFunction(agentID, role string) *LocalValueFunction {
	lf := &LocalValueFunction{
		AgentID:        agentID,
		AgentRole:      role,
		AlignmentScore: 1.0,
	}
	switch {
	case strings.Contains(role, "generator"):
		lf.LocalGoals = map[string]float64{"completeness": 0.9, "correctness": 0.8}
	case strings.Contains(role, "test"):
		lf.LocalGoals = map[string]float64{"coverage": 0.9, "edge_cases": 0.8}
	case strings.Contains(role, "refactor"):
		lf.LocalGoals = map[string]float64{"simplicity": 0.9, "consistency": 0.8}
	default:
		lf.LocalGoals = map[string]float64{"task_success": 0.8}
	}
	return lf
}

// EvaluateLocal scores an action against the agent's local goals. It is a
// coarse proxy: base score from the strongest local goal, nudged by payload
// features the role cares about.
func (lf *LocalValueFunction) EvaluateLocal(state State, action Action) float64 {
	base := 0.0
	for _, w := range lf.LocalGoals {
		if w > base {
			base = w
		}
	}
	if action.Payload == "" {
		return base * neutralScore
	}
	switch {
	case strings.Contains(lf.AgentRole, "test"):
		if strings.Contains(action.Payload, "func Test") {
			return clamp01(base + 0.1)
		}
		return base * 0.8
	case strings.Contains(lf.AgentRole, "refactor"):
		return base * scoreSimplicity(state, action)
	default:
		return base
	}
}

// AlignmentCheck is the outcome of comparing global and local judgments of
// one action.
type AlignmentCheck struct {
	GlobalScore float64    `json:"global_score"`
	LocalScore  float64    `json:"local_score"`
	Agreement   bool       `json:"agreement"`
	Score       float64    `json:"score"`
	Aligned     bool       `json:"aligned"`
	Violations  []GoalType `json:"violations,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// CheckAlignment compares the global function's judgment of an action with an
// agent's local judgment. The two agree when the scores fall within the
// agreement band; the action is aligned only when they agree and no global
// goal threshold is violated.
func CheckAlignment(vf *GlobalValueFunction, lf *LocalValueFunction, state State, action Action) AlignmentCheck {
	global := vf.Evaluate(state, action)
	local := lf.EvaluateLocal(state, action)
	gap := global - local
	if gap < 0 {
		gap = -gap
	}

	check := AlignmentCheck{
		GlobalScore: global,
		LocalScore:  local,
		Agreement:   gap < agreementBand,
		Score:       1 - gap,
		Violations:  vf.CheckThresholdViolations(state, action),
	}
	check.Aligned = check.Agreement && len(check.Violations) == 0

	if !check.Agreement {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("Local/Global score mismatch: %.2f vs %.2f", local, global))
	}
	for _, v := range check.Violations {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("Goal threshold violated: %s", v))
	}
	return check
}
