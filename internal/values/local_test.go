package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLocalValueFunction_RoleGoals(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"code-generator", "completeness"},
		{"test-writer", "coverage"},
		{"refactorer", "simplicity"},
		{"reviewer", "task_success"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			lf := NewLocalValueFunction("agent-1", tt.role)
			assert.Contains(t, lf.LocalGoals, tt.want)
			assert.Equal(t, 1.0, lf.AlignmentScore)
		})
	}
}

func TestCheckAlignment_Agreement(t *testing.T) {
	vf := &GlobalValueFunction{
		Goals: []GlobalGoal{{GoalType: GoalPerformance, Weight: 1.0, Threshold: 0.1}},
	}
	lf := NewLocalValueFunction("agent-1", "reviewer") // local base 0.8

	check := CheckAlignment(vf, lf, State{}, Action{Payload: "x"})

	// global neutral 0.5, local 0.8, gap 0.3 is NOT inside the band
	assert.False(t, check.Agreement)
	assert.InDelta(t, 0.7, check.Score, 1e-9)
	assert.False(t, check.Aligned)
	assert.Contains(t, check.Warnings[0], "Local/Global score mismatch")
}

func TestCheckAlignment_AlignedWithinBand(t *testing.T) {
	vf := &GlobalValueFunction{
		Goals: []GlobalGoal{{GoalType: GoalConsistency, Weight: 1.0, Threshold: 0.1}},
	}
	lf := NewLocalValueFunction("agent-1", "reviewer") // local 0.8

	// empty workspace: global consistency 1.0, gap 0.2 < 0.3
	check := CheckAlignment(vf, lf, State{}, Action{Payload: "x"})

	assert.True(t, check.Agreement)
	assert.True(t, check.Aligned)
	assert.Empty(t, check.Warnings)
	assert.InDelta(t, 0.8, check.Score, 1e-9)
}

func TestCheckAlignment_ThresholdViolationBlocksAlignment(t *testing.T) {
	vf := &GlobalValueFunction{
		Goals: []GlobalGoal{{GoalType: GoalCodeQuality, Weight: 1.0, Threshold: 0.9}},
	}
	lf := NewLocalValueFunction("agent-1", "reviewer")

	// quality scores 0.7 here: agreement with local 0.8 holds, threshold fails
	check := CheckAlignment(vf, lf, State{}, Action{
		Payload: "func Add(a, b int) int { return a + b }",
	})

	assert.True(t, check.Agreement)
	assert.False(t, check.Aligned)
	assert.Equal(t, []GoalType{GoalCodeQuality}, check.Violations)
	assert.Contains(t, check.Warnings[0], "Goal threshold violated")
}
