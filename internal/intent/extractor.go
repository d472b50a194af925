// Package intent extracts goal signals from natural-language task
// descriptions and maps them onto value function adjustments.
package intent

import (
	"strings"

	"aureus/internal/logging"
	"aureus/internal/values"
)

// Keyword sets, checked in the fixed priority order below. Quality wins the
// optimization target outright; simplicity only moves it off balance.
var (
	qualityKeywords         = []string{"production", "robust", "reliable", "enterprise", "quality"}
	simplicityKeywords      = []string{"simple", "minimal", "basic", "straightforward", "quick"}
	maintainabilityKeywords = []string{"maintainable", "clean", "readable", "documented"}
	performanceKeywords     = []string{"fast", "efficient", "optimized", "high-performance"}
	testabilityKeywords     = []string{"tested", "test coverage", "tdd", "testable"}
)

// Extraction is the outcome of reading goal signals out of a task intent.
type Extraction struct {
	Emphasis           []string                    `json:"emphasis"`
	ImpliedGoals       map[values.GoalType]float64 `json:"implied_goals,omitempty"`
	OptimizationTarget string                      `json:"optimization_target"`
	Constraints        []string                    `json:"constraints,omitempty"`
}

// Extractor turns free-text intent into value function adjustments.
type Extractor struct{}

// Extract scans the intent for goal keywords. ImpliedGoals contains only the
// weights the intent actually changes; the target defaults to balance.
func (e *Extractor) Extract(intent string) Extraction {
	lower := strings.ToLower(intent)

	result := Extraction{
		ImpliedGoals:       make(map[values.GoalType]float64),
		OptimizationTarget: values.TargetBalance,
	}

	if containsAny(lower, qualityKeywords) {
		result.Emphasis = append(result.Emphasis, "high_quality")
		result.ImpliedGoals[values.GoalCodeQuality] = 0.35
		result.ImpliedGoals[values.GoalTestability] = 0.15
		result.OptimizationTarget = values.TargetMaximizeQuality
	}
	if containsAny(lower, simplicityKeywords) {
		result.Emphasis = append(result.Emphasis, "simplicity")
		result.ImpliedGoals[values.GoalSimplicity] = 0.30
		result.ImpliedGoals[values.GoalCodeQuality] = 0.20
		if result.OptimizationTarget == values.TargetBalance {
			result.OptimizationTarget = values.TargetMaximizeSpeed
		}
	}
	if containsAny(lower, maintainabilityKeywords) {
		result.Emphasis = append(result.Emphasis, "maintainability")
		result.ImpliedGoals[values.GoalMaintainability] = 0.30
	}
	if containsAny(lower, performanceKeywords) {
		result.Emphasis = append(result.Emphasis, "performance")
		result.Constraints = append(result.Constraints, "optimize_for_performance")
	}
	if containsAny(lower, testabilityKeywords) {
		result.Emphasis = append(result.Emphasis, "testability")
		result.ImpliedGoals[values.GoalTestability] = 0.15
	}

	result.Constraints = append(result.Constraints, negativeConstraints(lower)...)

	if len(result.ImpliedGoals) == 0 {
		result.ImpliedGoals = nil
	}
	logging.CoordinatorDebug("intent extraction: emphasis=%v target=%s", result.Emphasis, result.OptimizationTarget)
	return result
}

// negativeConstraints picks up the explicit "do not" signals.
func negativeConstraints(lower string) []string {
	var out []string
	if strings.Contains(lower, "no dependencies") || strings.Contains(lower, "zero dependencies") {
		out = append(out, "no_external_dependencies")
	}
	if strings.Contains(lower, "no classes") || strings.Contains(lower, "functional") {
		out = append(out, "no_classes")
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
