package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() Specification {
	return Specification{
		Intent:          "create a parser",
		SuccessCriteria: []string{"Implement: create a parser"},
		Budgets:         Budget{MaxLOCDelta: 100, MaxNewAbstractions: 2, MaxCyclomaticComplexity: 10},
		RiskLevel:       RiskLow,
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(validSpec())
	require.NoError(t, err)
	assert.Equal(t, "create a parser", s.Intent)
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Specification)
		field  string
	}{
		{"empty intent", func(s *Specification) { s.Intent = "   " }, "intent"},
		{"no criteria", func(s *Specification) { s.SuccessCriteria = nil }, "success_criteria"},
		{"bad risk", func(s *Specification) { s.RiskLevel = "extreme" }, "risk_level"},
		{"zero loc delta", func(s *Specification) { s.Budgets.MaxLOCDelta = 0 }, "budgets.max_loc_delta"},
		{"negative field", func(s *Specification) { s.Budgets.MaxNewFiles = -1 }, "budgets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)

			_, err := New(s)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestRiskLevel_Multiplier(t *testing.T) {
	assert.Equal(t, 1.0, RiskLow.Multiplier())
	assert.Equal(t, 1.2, RiskMedium.Multiplier())
	assert.Equal(t, 1.5, RiskHigh.Multiplier())
	assert.Equal(t, 2.0, RiskCritical.Multiplier())
}

func TestRiskLevel_Valid(t *testing.T) {
	assert.True(t, RiskLow.Valid())
	assert.True(t, RiskCritical.Valid())
	assert.False(t, RiskLevel("moderate").Valid())
	assert.False(t, RiskLevel("").Valid())
}
