package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"aureus/internal/logging"
)

// LoadError is returned when a policy file cannot be loaded or fails
// validation. It carries the accumulated per-field problems.
type LoadError struct {
	Path     string
	Problems []string
}

func (e *LoadError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("policy %s: %s", e.Path, e.Problems[0])
	}
	return fmt.Sprintf("policy %s: validation failed:\n  - %s",
		e.Path, strings.Join(e.Problems, "\n  - "))
}

// rawPolicy is the YAML shape of a policy file. Permissions arrive as a
// loose map and are narrowed to the typed record during conversion.
type rawPolicy struct {
	Version string `yaml:"version"`
	Project struct {
		Name     string `yaml:"name"`
		Root     string `yaml:"root"`
		Language string `yaml:"language"`
		Type     string `yaml:"type"`
	} `yaml:"project"`
	Budgets           *Budget            `yaml:"budgets"`
	ForbiddenPatterns []ForbiddenPattern `yaml:"forbidden_patterns"`
	Permissions       map[string]bool    `yaml:"permissions"`
	CostThresholds    *CostThresholds    `yaml:"cost_thresholds"`
	Simplification    *Simplification    `yaml:"simplification"`
}

// Load reads and validates a policy YAML file.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: path, Problems: []string{"policy file not found"}}
		}
		return nil, &LoadError{Path: path, Problems: []string{fmt.Sprintf("failed to read file: %v", err)}}
	}

	var raw rawPolicy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Problems: []string{fmt.Sprintf("invalid YAML syntax: %v", err)}}
	}

	if problems := validate(&raw); len(problems) > 0 {
		return nil, &LoadError{Path: path, Problems: problems}
	}

	p := toPolicy(&raw)
	logging.Policy("loaded policy %q (max_loc=%d, %d forbidden patterns)",
		p.ProjectName, p.Budgets.MaxLOC, len(p.ForbiddenPatterns))
	return p, nil
}

// Save writes the policy back to a YAML file.
func Save(p *Policy, path string) error {
	raw := fromPolicy(p)

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create policy directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// validate accumulates every structural problem rather than failing fast, so
// a broken policy file reports all issues at once.
func validate(raw *rawPolicy) []string {
	var problems []string

	if raw.Version == "" {
		problems = append(problems, "missing required field: version")
	}
	if raw.Project.Name == "" {
		problems = append(problems, "missing required field: project.name")
	}
	if raw.Project.Root == "" {
		problems = append(problems, "missing required field: project.root")
	}
	if raw.Budgets == nil {
		problems = append(problems, "missing required field: budgets")
		return problems
	}

	checkPositive := func(name string, v int) {
		if v <= 0 {
			problems = append(problems, fmt.Sprintf("field 'budgets.%s' must be positive", name))
		}
	}
	checkPositive("max_loc", raw.Budgets.MaxLOC)
	checkPositive("max_modules", raw.Budgets.MaxModules)
	checkPositive("max_files", raw.Budgets.MaxFiles)
	checkPositive("max_dependencies", raw.Budgets.MaxDependencies)

	for i, fp := range raw.ForbiddenPatterns {
		if fp.Name == "" {
			problems = append(problems, fmt.Sprintf("forbidden_patterns[%d]: missing name", i))
		}
	}

	return problems
}

func toPolicy(raw *rawPolicy) *Policy {
	budgets := *raw.Budgets
	if budgets.MaxClassLOC == 0 {
		budgets.MaxClassLOC = 500
	}
	if budgets.MaxFunctionLOC == 0 {
		budgets.MaxFunctionLOC = 50
	}
	if budgets.MaxInheritanceDepth == 0 {
		budgets.MaxInheritanceDepth = 2
	}

	perms, unknown := ParsePermissions(raw.Permissions)
	for _, key := range unknown {
		logging.Get(logging.CategoryPolicy).Warn("unrecognized permission %q denied", key)
	}

	thresholds := CostThresholds{Warning: 100.0, Rejection: 500.0, SessionLimit: 2000.0}
	if raw.CostThresholds != nil {
		thresholds = *raw.CostThresholds
	}

	simplification := Simplification{TriggerAtBudgetPercent: 85, Mandatory: true, TargetReduction: 0.2}
	if raw.Simplification != nil {
		simplification = *raw.Simplification
	}

	return &Policy{
		Version:           raw.Version,
		ProjectName:       raw.Project.Name,
		ProjectRoot:       raw.Project.Root,
		ProjectLanguage:   raw.Project.Language,
		ProjectType:       raw.Project.Type,
		Budgets:           budgets,
		ForbiddenPatterns: raw.ForbiddenPatterns,
		Permissions:       perms,
		CostThresholds:    thresholds,
		Simplification:    simplification,
	}
}

func fromPolicy(p *Policy) *rawPolicy {
	raw := &rawPolicy{
		Version:           p.Version,
		Budgets:           &p.Budgets,
		ForbiddenPatterns: p.ForbiddenPatterns,
		CostThresholds:    &p.CostThresholds,
		Simplification:    &p.Simplification,
	}
	raw.Project.Name = p.ProjectName
	raw.Project.Root = p.ProjectRoot
	raw.Project.Language = p.ProjectLanguage
	raw.Project.Type = p.ProjectType
	raw.Permissions = map[string]bool{
		PermFileWrite:         p.Permissions.AllowFileWrite,
		PermShell:             p.Permissions.AllowShell,
		PermNetwork:           p.Permissions.AllowNetwork,
		PermDependencyInstall: p.Permissions.AllowDependencyInstall,
	}
	return raw
}
