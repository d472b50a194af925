// Package spec defines bounded build specifications and the GVUFD generator
// that derives them from natural-language intent. A Specification is created
// once per coordination call and never mutated; variants are new instances
// derived from a base.
package spec

import (
	"fmt"
	"strings"
)

// RiskLevel classifies how dangerous a change is.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether the risk level is one of the enumerated values.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Multiplier returns the cost multiplier applied to risky changes.
func (r RiskLevel) Multiplier() float64 {
	switch r {
	case RiskMedium:
		return 1.2
	case RiskHigh:
		return 1.5
	case RiskCritical:
		return 2.0
	default:
		return 1.0
	}
}

// Budget holds the per-specification change limits.
type Budget struct {
	MaxLOCDelta             int `json:"max_loc_delta"`
	MaxNewFiles             int `json:"max_new_files"`
	MaxNewDependencies      int `json:"max_new_dependencies"`
	MaxNewAbstractions      int `json:"max_new_abstractions"`
	MaxCyclomaticComplexity int `json:"max_cyclomatic_complexity"`
}

// AcceptanceTest is a named test obligation attached to a specification.
type AcceptanceTest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TestType    string `json:"test_type"`
	Priority    string `json:"priority"`
}

// Specification is a bounded, budgeted unit of intended work.
type Specification struct {
	Intent                 string           `json:"intent"`
	SuccessCriteria        []string         `json:"success_criteria"`
	Budgets                Budget           `json:"budgets"`
	RiskLevel              RiskLevel        `json:"risk_level"`
	ForbiddenPatterns      []string         `json:"forbidden_patterns"`
	SecurityConsiderations []string         `json:"security_considerations"`
	AcceptanceTests        []AcceptanceTest `json:"acceptance_tests"`
	DependenciesNeeded     []string         `json:"dependencies_needed"`
}

// ValidationError reports a malformed specification. It is raised at
// construction time and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid specification: %s: %s", e.Field, e.Reason)
}

// New constructs a validated Specification. Construction is the only place
// invariants are checked; a returned Specification is always well-formed.
func New(s Specification) (*Specification, error) {
	if strings.TrimSpace(s.Intent) == "" {
		return nil, &ValidationError{Field: "intent", Reason: "must be non-empty"}
	}
	if len(s.SuccessCriteria) == 0 {
		return nil, &ValidationError{Field: "success_criteria", Reason: "must be non-empty"}
	}
	if !s.RiskLevel.Valid() {
		return nil, &ValidationError{Field: "risk_level", Reason: fmt.Sprintf("unknown level %q", s.RiskLevel)}
	}
	if s.Budgets.MaxLOCDelta <= 0 {
		return nil, &ValidationError{Field: "budgets.max_loc_delta", Reason: "must be positive"}
	}
	if s.Budgets.MaxNewFiles < 0 || s.Budgets.MaxNewDependencies < 0 ||
		s.Budgets.MaxNewAbstractions < 0 || s.Budgets.MaxCyclomaticComplexity < 0 {
		return nil, &ValidationError{Field: "budgets", Reason: "fields must be non-negative"}
	}
	return &s, nil
}
