package spec

import (
	"fmt"
	"strings"

	"aureus/internal/logging"
	"aureus/internal/policy"
)

// Complexity classes and the fraction of the policy LOC budget each one may
// consume.
var complexityFractions = map[string]float64{
	"trivial":  0.05, // helper functions, small changes
	"low":      0.15, // single feature, well-defined
	"medium":   0.30, // multiple files, moderate complexity
	"high":     0.50, // system-wide changes
	"critical": 0.75, // major refactor, architectural changes
}

var (
	highComplexityKeywords = []string{
		"authentication", "payment", "security", "oauth", "database migration",
		"refactor system", "redesign", "architecture",
	}
	mediumComplexityKeywords = []string{
		"api", "endpoint", "feature", "module", "integration", "service",
	}
	lowComplexityKeywords = []string{
		"function", "helper", "utility", "format", "parse", "validate",
	}

	criticalRiskKeywords = []string{
		"payment", "credit card", "password reset", "admin", "sudo",
	}
	highRiskKeywords = []string{
		"authentication", "authorization", "security", "encryption",
		"database", "migration", "production",
	}
	mediumRiskKeywords = []string{
		"api", "endpoint", "user data", "storage", "cache",
	}
)

// Builder is the GVUFD specification generator: it converts intent + policy
// into a bounded base Specification.
type Builder struct {
	pol *policy.Policy
}

// NewBuilder creates a Builder bound to a policy.
func NewBuilder(pol *policy.Policy) *Builder {
	return &Builder{pol: pol}
}

// Generate produces the base specification for an intent.
func (b *Builder) Generate(intent string) (*Specification, error) {
	complexity := b.EstimateComplexity(intent)
	budget := b.allocate(complexity)
	risk := AssessRisk(intent)

	s := Specification{
		Intent:                 intent,
		SuccessCriteria:        successCriteria(intent),
		Budgets:                budget,
		RiskLevel:              risk,
		ForbiddenPatterns:      b.pol.ForbiddenPatternNames(),
		SecurityConsiderations: securityConsiderations(intent),
		AcceptanceTests:        acceptanceTests(intent),
	}

	out, err := New(s)
	if err != nil {
		return nil, err
	}

	logging.Governance("generated spec: complexity=%s risk=%s loc_delta=%d criteria=%d",
		complexity, risk, budget.MaxLOCDelta, len(out.SuccessCriteria))
	return out, nil
}

// EstimateComplexity classifies the intent into a coarse complexity class
// from keyword density.
func (b *Builder) EstimateComplexity(intent string) string {
	lower := strings.ToLower(intent)

	if containsAny(lower, highComplexityKeywords) {
		return "high"
	}
	if containsAny(lower, mediumComplexityKeywords) {
		return "medium"
	}
	if containsAny(lower, lowComplexityKeywords) {
		return "low"
	}
	return "medium"
}

// allocate converts a complexity class into a specification budget as a
// fraction of the policy budget, clamped to the policy limits.
func (b *Builder) allocate(complexity string) Budget {
	fraction, ok := complexityFractions[complexity]
	if !ok {
		fraction = complexityFractions["medium"]
	}

	pb := b.pol.Budgets
	locDelta := int(float64(pb.MaxLOC) * fraction)
	if locDelta > pb.MaxLOC {
		locDelta = pb.MaxLOC
	}
	if locDelta < 1 {
		locDelta = 1
	}

	files := int(float64(pb.MaxFiles) * fraction)
	if files < 1 {
		files = 1
	}
	deps := int(float64(pb.MaxDependencies) * fraction)
	if deps < 0 {
		deps = 0
	}

	return Budget{
		MaxLOCDelta:             locDelta,
		MaxNewFiles:             files,
		MaxNewDependencies:      deps,
		MaxNewAbstractions:      5,
		MaxCyclomaticComplexity: 10,
	}
}

// AssessRisk classifies the risk level of an intent from domain-sensitive
// keywords.
func AssessRisk(intent string) RiskLevel {
	lower := strings.ToLower(intent)

	if containsAny(lower, criticalRiskKeywords) {
		return RiskCritical
	}
	if containsAny(lower, highRiskKeywords) {
		return RiskHigh
	}
	if containsAny(lower, mediumRiskKeywords) {
		return RiskMedium
	}
	return RiskLow
}

func successCriteria(intent string) []string {
	criteria := []string{fmt.Sprintf("Implement: %s", intent)}
	lower := strings.ToLower(intent)

	if strings.Contains(lower, "authentication") || strings.Contains(lower, "login") {
		criteria = append(criteria,
			"User can authenticate with valid credentials",
			"Invalid credentials are rejected",
			"Password is securely hashed",
		)
	}
	if strings.Contains(lower, "api") || strings.Contains(lower, "endpoint") {
		criteria = append(criteria,
			"Endpoint returns correct status codes",
			"Response format matches specification",
			"Error cases are handled properly",
		)
	}
	if strings.Contains(lower, "test") {
		criteria = append(criteria,
			"Tests cover happy path",
			"Tests cover error cases",
			"All tests pass",
		)
	}

	if len(criteria) == 1 {
		criteria = append(criteria,
			"Implementation is complete and functional",
			"Code follows project conventions",
		)
	}
	return criteria
}

func securityConsiderations(intent string) []string {
	var out []string
	lower := strings.ToLower(intent)

	if strings.Contains(lower, "password") {
		out = append(out, "Use bcrypt or argon2 for password hashing")
	}
	if strings.Contains(lower, "payment") || strings.Contains(lower, "credit card") {
		out = append(out,
			"Use PCI-DSS compliant payment processor",
			"Never store raw credit card numbers",
			"Implement tokenization for payment data",
		)
	}
	if strings.Contains(lower, "api") || strings.Contains(lower, "endpoint") {
		out = append(out,
			"Validate all input parameters",
			"Implement rate limiting",
		)
	}
	if strings.Contains(lower, "database") || strings.Contains(lower, "sql") {
		out = append(out, "Use parameterized queries to prevent SQL injection")
	}
	if strings.Contains(lower, "authentication") {
		out = append(out,
			"Implement secure session management",
			"Use HTTPS for authentication endpoints",
		)
	}
	return out
}

func acceptanceTests(intent string) []AcceptanceTest {
	return []AcceptanceTest{
		{
			Name:        testNameFromIntent(intent),
			Description: fmt.Sprintf("Verify that %s works correctly", intent),
			TestType:    "integration",
			Priority:    "high",
		},
	}
}

func testNameFromIntent(intent string) string {
	name := strings.ToLower(intent)
	if len(name) > 30 {
		name = name[:30]
	}
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return "test_" + name
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
