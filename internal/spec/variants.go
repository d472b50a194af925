package spec

import "aureus/internal/logging"

// simplifyThreshold is the base LOC budget above which a simplified variant
// is worth generating at all.
const simplifyThreshold = 100

// DeriveVariants produces the candidate variants for a base specification:
// a simplified variant when the base is large enough to shrink, and a robust
// variant always. Variants are fresh Specifications; the base is untouched.
func DeriveVariants(base *Specification) []*Specification {
	var variants []*Specification

	if base.Budgets.MaxLOCDelta > simplifyThreshold {
		if v, err := Simplified(base); err == nil {
			variants = append(variants, v)
		}
	}
	if v, err := Robust(base); err == nil {
		variants = append(variants, v)
	}

	logging.GovernanceDebug("derived %d variants from base (loc_delta=%d)",
		len(variants), base.Budgets.MaxLOCDelta)
	return variants
}

// Simplified derives a cheaper variant: 70% of the LOC budget, the first
// three success criteria, at most two acceptance tests, one fewer dependency
// and abstraction, and low risk.
func Simplified(base *Specification) (*Specification, error) {
	budget := base.Budgets
	budget.MaxLOCDelta = int(float64(base.Budgets.MaxLOCDelta) * 0.7)
	if budget.MaxLOCDelta < 1 {
		budget.MaxLOCDelta = 1
	}
	budget.MaxNewDependencies = base.Budgets.MaxNewDependencies - 1
	if budget.MaxNewDependencies < 0 {
		budget.MaxNewDependencies = 0
	}
	budget.MaxNewAbstractions = base.Budgets.MaxNewAbstractions - 1
	if budget.MaxNewAbstractions < 1 {
		budget.MaxNewAbstractions = 1
	}

	deps := base.DependenciesNeeded
	if len(deps) > 1 {
		deps = deps[:1]
	}

	return New(Specification{
		Intent:                 base.Intent + " (simplified)",
		SuccessCriteria:        head(base.SuccessCriteria, 3),
		Budgets:                budget,
		RiskLevel:              RiskLow,
		ForbiddenPatterns:      base.ForbiddenPatterns,
		SecurityConsiderations: base.SecurityConsiderations,
		AcceptanceTests:        headTests(base.AcceptanceTests, 2),
		DependenciesNeeded:     deps,
	})
}

// Robust derives a hardened variant: 120% of the LOC budget, one extra
// abstraction, appended quality criteria, medium risk, and an added
// error-handling acceptance test.
func Robust(base *Specification) (*Specification, error) {
	budget := base.Budgets
	budget.MaxLOCDelta = int(float64(base.Budgets.MaxLOCDelta) * 1.2)
	budget.MaxNewAbstractions = base.Budgets.MaxNewAbstractions + 1

	criteria := append(head(base.SuccessCriteria, len(base.SuccessCriteria)),
		"Has comprehensive error handling",
		"Documents all exported behavior",
		"Handles invalid input gracefully",
	)

	tests := append(headTests(base.AcceptanceTests, len(base.AcceptanceTests)),
		AcceptanceTest{
			Name:        "error_handling_test",
			Description: "Verify error handling for edge cases and invalid inputs",
			TestType:    "integration",
			Priority:    "high",
		})

	return New(Specification{
		Intent:                 base.Intent + " (production-ready)",
		SuccessCriteria:        criteria,
		Budgets:                budget,
		RiskLevel:              RiskMedium,
		ForbiddenPatterns:      base.ForbiddenPatterns,
		SecurityConsiderations: base.SecurityConsiderations,
		AcceptanceTests:        tests,
		DependenciesNeeded:     base.DependenciesNeeded,
	})
}

// head copies the first n strings so variants never alias the base slices.
func head(in []string, n int) []string {
	if n > len(in) {
		n = len(in)
	}
	out := make([]string, n)
	copy(out, in[:n])
	return out
}

func headTests(in []AcceptanceTest, n int) []AcceptanceTest {
	if n > len(in) {
		n = len(in)
	}
	out := make([]AcceptanceTest, n)
	copy(out, in[:n])
	return out
}
