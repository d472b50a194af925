package values

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	mem, err := NewMemory(filepath.Join(t.TempDir(), "values.db"), 100, 50)
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })
	return mem
}

func TestNewMemory_SeedsDefaults(t *testing.T) {
	mem := newTestMemory(t)

	vf := mem.ValueFunction()
	assert.Len(t, vf.Goals, 5)
	assert.Equal(t, TargetBalance, vf.OptimizationTarget)
}

func TestNewMemory_ReopensPersistedFunction(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "values.db")

	mem, err := NewMemory(dbPath, 100, 50)
	require.NoError(t, err)
	require.NoError(t, mem.SetOptimizationTarget(TargetMaximizeSpeed))
	require.NoError(t, mem.Close())

	mem, err = NewMemory(dbPath, 100, 50)
	require.NoError(t, err)
	defer mem.Close()

	assert.Equal(t, TargetMaximizeSpeed, mem.ValueFunction().OptimizationTarget)
}

func TestValidateAgentAction_UnregisteredIsAllowedWithWarning(t *testing.T) {
	mem := newTestMemory(t)

	ok, warnings := mem.ValidateAgentAction("ghost", State{}, Action{})

	assert.True(t, ok)
	assert.Equal(t, []string{"Agent not registered"}, warnings)
}

func TestValidateAgentAction_AlignedActionRecorded(t *testing.T) {
	mem := newTestMemory(t)
	mem.RegisterAgent("gen-1", "code-generator")

	ok, warnings := mem.ValidateAgentAction("gen-1", State{}, Action{Payload: wellFormedGo})

	assert.True(t, ok)
	assert.Empty(t, warnings)

	stats, err := mem.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalChecks)
	assert.Equal(t, 1, stats.AlignedChecks)
	assert.Equal(t, 1.0, stats.AlignmentRate)
	assert.Greater(t, stats.AverageScore, 0.5)
	assert.Equal(t, 0, stats.DriftEvents)
	assert.Nil(t, stats.LastDrift)
}

func TestValidateAgentAction_DriftRecorded(t *testing.T) {
	mem := newTestMemory(t)
	mem.RegisterAgent("gen-1", "code-generator") // local score 0.9

	// weight consistency alone so clashing patterns drive the global score to 0
	for _, g := range []GoalType{GoalCodeQuality, GoalMaintainability, GoalSimplicity, GoalTestability} {
		require.NoError(t, mem.UpdateGlobalGoal(g, 0))
	}
	require.NoError(t, mem.UpdateGlobalGoal(GoalConsistency, 1.0))

	state := State{ExistingPatterns: []string{"table_tests"}}
	action := Action{Payload: "do stuff", Patterns: []string{"singletons"}}
	ok, warnings := mem.ValidateAgentAction("gen-1", state, action)

	assert.False(t, ok)
	require.NotEmpty(t, warnings)
	assert.True(t, strings.HasPrefix(warnings[0], "DRIFT DETECTED"))

	stats, err := mem.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DriftEvents)
	require.NotNil(t, stats.LastDrift)

	events, err := mem.DriftHistory(5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "gen-1", events[0].AgentID)
}

func TestUpdateGlobalGoal(t *testing.T) {
	mem := newTestMemory(t)

	require.NoError(t, mem.UpdateGlobalGoal(GoalCodeQuality, 0.35))
	vf := mem.ValueFunction()
	assert.Equal(t, 0.35, vf.GoalWeight(GoalCodeQuality))

	// unknown goal is a no-op
	require.NoError(t, mem.UpdateGlobalGoal(GoalType("velocity"), 0.9))
}

func TestRegisterAgent_ReplacesLocalFunction(t *testing.T) {
	mem := newTestMemory(t)

	mem.RegisterAgent("a", "test-writer")
	assert.Contains(t, mem.Agent("a").LocalGoals, "coverage")

	mem.RegisterAgent("a", "refactorer")
	assert.Contains(t, mem.Agent("a").LocalGoals, "simplicity")
}
