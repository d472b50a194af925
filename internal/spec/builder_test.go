package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aureus/internal/policy"
)

func testPolicy() *policy.Policy {
	return &policy.Policy{
		Version:     "1.0",
		ProjectName: "demo",
		Budgets: policy.Budget{
			MaxLOC:          1000,
			MaxModules:      10,
			MaxFiles:        20,
			MaxDependencies: 5,
		},
		ForbiddenPatterns: []policy.ForbiddenPattern{
			{Name: "global_state"},
		},
	}
}

func TestEstimateComplexity(t *testing.T) {
	b := NewBuilder(testPolicy())

	tests := []struct {
		intent string
		want   string
	}{
		{"add oauth authentication", "high"},
		{"redesign the storage layer architecture", "high"},
		{"build a REST api endpoint", "medium"},
		{"add a helper function to format dates", "low"},
		{"do the thing", "medium"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, b.EstimateComplexity(tt.intent), tt.intent)
	}
}

func TestGenerate_AllocatesFromPolicy(t *testing.T) {
	b := NewBuilder(testPolicy())

	s, err := b.Generate("add a helper function to format dates")
	require.NoError(t, err)

	// low complexity: 15% of the 1000-LOC policy budget
	assert.Equal(t, 150, s.Budgets.MaxLOCDelta)
	assert.Equal(t, 3, s.Budgets.MaxNewFiles)
	assert.Equal(t, 0, s.Budgets.MaxNewDependencies)
	assert.Equal(t, 5, s.Budgets.MaxNewAbstractions)
	assert.Equal(t, 10, s.Budgets.MaxCyclomaticComplexity)
	assert.Equal(t, []string{"global_state"}, s.ForbiddenPatterns)
}

func TestGenerate_NeverExceedsPolicyLOC(t *testing.T) {
	pol := testPolicy()
	pol.Budgets.MaxLOC = 10
	b := NewBuilder(pol)

	s, err := b.Generate("redesign the architecture of the payment system")
	require.NoError(t, err)
	assert.LessOrEqual(t, s.Budgets.MaxLOCDelta, pol.Budgets.MaxLOC)
	assert.GreaterOrEqual(t, s.Budgets.MaxLOCDelta, 1)
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		intent string
		want   RiskLevel
	}{
		{"integrate a payment provider", RiskCritical},
		{"add admin tooling", RiskCritical},
		{"add authentication middleware", RiskHigh},
		{"run a database migration", RiskHigh},
		{"expose a health endpoint", RiskMedium},
		{"add a cache for lookups", RiskMedium},
		{"format dates consistently", RiskLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AssessRisk(tt.intent), tt.intent)
	}
}

func TestGenerate_SuccessCriteria(t *testing.T) {
	b := NewBuilder(testPolicy())

	s, err := b.Generate("build a login endpoint")
	require.NoError(t, err)

	assert.Equal(t, "Implement: build a login endpoint", s.SuccessCriteria[0])
	assert.Contains(t, s.SuccessCriteria, "Invalid credentials are rejected")
	assert.Contains(t, s.SuccessCriteria, "Endpoint returns correct status codes")
}

func TestGenerate_DefaultCriteriaWhenNoKeywords(t *testing.T) {
	b := NewBuilder(testPolicy())

	s, err := b.Generate("rename the widget")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Implement: rename the widget",
		"Implementation is complete and functional",
		"Code follows project conventions",
	}, s.SuccessCriteria)
}

func TestGenerate_SecurityConsiderations(t *testing.T) {
	b := NewBuilder(testPolicy())

	s, err := b.Generate("store password hashes in the database")
	require.NoError(t, err)

	assert.Contains(t, s.SecurityConsiderations, "Use bcrypt or argon2 for password hashing")
	assert.Contains(t, s.SecurityConsiderations, "Use parameterized queries to prevent SQL injection")
}

func TestGenerate_AcceptanceTestName(t *testing.T) {
	b := NewBuilder(testPolicy())

	s, err := b.Generate("Create A Simple Calculator")
	require.NoError(t, err)

	require.Len(t, s.AcceptanceTests, 1)
	assert.Equal(t, "test_create_a_simple_calculator", s.AcceptanceTests[0].Name)
	assert.Equal(t, "integration", s.AcceptanceTests[0].TestType)
}
