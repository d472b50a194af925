// Package policy defines the project policy record consumed by the
// governance engine: budgets, permissions, forbidden patterns, and cost
// thresholds. Policies are YAML files under .aureus/policy.yaml.
package policy

// Policy is the project-level governance contract. It is read-only inside
// the engine; all mutation happens by editing the policy file.
type Policy struct {
	Version string `yaml:"version"`

	ProjectName     string `yaml:"-"`
	ProjectRoot     string `yaml:"-"`
	ProjectLanguage string `yaml:"-"`
	ProjectType     string `yaml:"-"`

	Budgets           Budget             `yaml:"budgets"`
	ForbiddenPatterns []ForbiddenPattern `yaml:"forbidden_patterns"`
	Permissions       Permissions        `yaml:"-"`
	CostThresholds    CostThresholds     `yaml:"cost_thresholds"`
	Simplification    Simplification     `yaml:"simplification"`
}

// Budget holds project-wide change limits.
type Budget struct {
	MaxLOC          int `yaml:"max_loc"`
	MaxModules      int `yaml:"max_modules"`
	MaxFiles        int `yaml:"max_files"`
	MaxDependencies int `yaml:"max_dependencies"`

	MaxClassLOC         int `yaml:"max_class_loc"`
	MaxFunctionLOC      int `yaml:"max_function_loc"`
	MaxInheritanceDepth int `yaml:"max_inheritance_depth"`
}

// ForbiddenPattern names a construct the project bans.
type ForbiddenPattern struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Rule        string `yaml:"rule"`
	Severity    string `yaml:"severity"`
	AutoFix     bool   `yaml:"auto_fix"`
}

// Permissions is the typed permission record. Only the enumerated keys are
// recognized; anything else in the policy file is denied.
type Permissions struct {
	AllowFileWrite         bool
	AllowShell             bool
	AllowNetwork           bool
	AllowDependencyInstall bool
}

// Recognized permission keys.
const (
	PermFileWrite         = "file_write"
	PermShell             = "shell"
	PermNetwork           = "network"
	PermDependencyInstall = "dependency_install"
)

// ParsePermissions converts a raw permission map into the typed record.
// Unrecognized keys are reported and denied.
func ParsePermissions(raw map[string]bool) (Permissions, []string) {
	var p Permissions
	var unknown []string

	for key, allowed := range raw {
		switch key {
		case PermFileWrite:
			p.AllowFileWrite = allowed
		case PermShell:
			p.AllowShell = allowed
		case PermNetwork:
			p.AllowNetwork = allowed
		case PermDependencyInstall:
			p.AllowDependencyInstall = allowed
		default:
			unknown = append(unknown, key)
		}
	}
	return p, unknown
}

// CostThresholds carries the monetary guardrails for a build session.
type CostThresholds struct {
	Warning      float64 `yaml:"warning"`
	Rejection    float64 `yaml:"rejection"`
	SessionLimit float64 `yaml:"session_limit"`
}

// Simplification configures mandatory simplification near budget limits.
type Simplification struct {
	TriggerAtBudgetPercent int     `yaml:"trigger_at_budget_percent"`
	Mandatory              bool    `yaml:"mandatory"`
	TargetReduction        float64 `yaml:"target_reduction"`
}

// ForbiddenPatternNames returns just the pattern names, in file order.
func (p *Policy) ForbiddenPatternNames() []string {
	names := make([]string, 0, len(p.ForbiddenPatterns))
	for _, fp := range p.ForbiddenPatterns {
		names = append(names, fp.Name)
	}
	return names
}
