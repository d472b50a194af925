package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSpec(t *testing.T, locDelta int) *Specification {
	t.Helper()
	s, err := New(Specification{
		Intent: "build a task queue",
		SuccessCriteria: []string{
			"Implement: build a task queue",
			"Workers drain the queue",
			"Queue survives restart",
			"Backpressure is applied",
		},
		Budgets: Budget{
			MaxLOCDelta:             locDelta,
			MaxNewFiles:             4,
			MaxNewDependencies:      2,
			MaxNewAbstractions:      3,
			MaxCyclomaticComplexity: 10,
		},
		RiskLevel: RiskMedium,
		AcceptanceTests: []AcceptanceTest{
			{Name: "test_queue_basic", TestType: "integration", Priority: "high"},
			{Name: "test_queue_restart", TestType: "integration", Priority: "medium"},
			{Name: "test_queue_backpressure", TestType: "integration", Priority: "low"},
		},
		DependenciesNeeded: []string{"queue-lib", "metrics-lib"},
	})
	require.NoError(t, err)
	return s
}

func TestDeriveVariants_LargeBase(t *testing.T) {
	base := baseSpec(t, 200)

	variants := DeriveVariants(base)
	require.Len(t, variants, 2, "simplified + robust")

	simplified, robust := variants[0], variants[1]
	assert.Contains(t, simplified.Intent, "(simplified)")
	assert.Contains(t, robust.Intent, "(production-ready)")
}

func TestDeriveVariants_SmallBaseSkipsSimplified(t *testing.T) {
	base := baseSpec(t, 100) // not strictly greater than the threshold

	variants := DeriveVariants(base)
	require.Len(t, variants, 1)
	assert.Contains(t, variants[0].Intent, "(production-ready)")
}

func TestSimplified(t *testing.T) {
	base := baseSpec(t, 200)

	s, err := Simplified(base)
	require.NoError(t, err)

	assert.Equal(t, 140, s.Budgets.MaxLOCDelta) // 70%
	assert.Equal(t, 1, s.Budgets.MaxNewDependencies)
	assert.Equal(t, 2, s.Budgets.MaxNewAbstractions)
	assert.Equal(t, RiskLow, s.RiskLevel)
	assert.Len(t, s.SuccessCriteria, 3)
	assert.Len(t, s.AcceptanceTests, 2)
	assert.Equal(t, []string{"queue-lib"}, s.DependenciesNeeded)
}

func TestSimplified_Floors(t *testing.T) {
	base := baseSpec(t, 200)
	base.Budgets.MaxNewDependencies = 0
	base.Budgets.MaxNewAbstractions = 1

	s, err := Simplified(base)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Budgets.MaxNewDependencies)
	assert.Equal(t, 1, s.Budgets.MaxNewAbstractions)
}

func TestRobust(t *testing.T) {
	base := baseSpec(t, 200)

	s, err := Robust(base)
	require.NoError(t, err)

	assert.Equal(t, 240, s.Budgets.MaxLOCDelta) // 120%
	assert.Equal(t, 4, s.Budgets.MaxNewAbstractions)
	assert.Equal(t, RiskMedium, s.RiskLevel)
	assert.Contains(t, s.SuccessCriteria, "Has comprehensive error handling")
	assert.Equal(t, "error_handling_test", s.AcceptanceTests[len(s.AcceptanceTests)-1].Name)
}

func TestVariants_DoNotMutateBase(t *testing.T) {
	base := baseSpec(t, 200)
	criteriaBefore := len(base.SuccessCriteria)
	testsBefore := len(base.AcceptanceTests)

	_, err := Simplified(base)
	require.NoError(t, err)
	_, err = Robust(base)
	require.NoError(t, err)

	assert.Len(t, base.SuccessCriteria, criteriaBefore)
	assert.Len(t, base.AcceptanceTests, testsBefore)
	assert.Equal(t, 200, base.Budgets.MaxLOCDelta)
	assert.Equal(t, RiskMedium, base.RiskLevel)
}
