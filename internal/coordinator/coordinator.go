// Package coordinator runs the three-tier flow: goal extraction feeds the
// value function, specification candidates are priced and selected by value
// alignment, and execution is checked for drift before the result is
// accepted or sent back for refinement.
package coordinator

import (
	"fmt"
	"strings"

	"aureus/internal/intent"
	"aureus/internal/logging"
	"aureus/internal/policy"
	"aureus/internal/pricing"
	"aureus/internal/spec"
	"aureus/internal/values"
)

// Phase identifies one step of the coordination flow.
type Phase string

const (
	PhaseExtractGoals       Phase = "EXTRACT_GOALS"
	PhaseGenerateCandidates Phase = "GENERATE_CANDIDATES"
	PhasePriceAndSelect     Phase = "PRICE_AND_SELECT"
	PhaseGatherContext      Phase = "GATHER_CONTEXT"
	PhaseExecute            Phase = "EXECUTE"
	PhaseCheckAlignment     Phase = "CHECK_ALIGNMENT"
	PhaseRefine             Phase = "REFINE"
	PhaseDone               Phase = "DONE"
	PhaseError              Phase = "ERROR"
)

// coordinatorAgent is the identity the coordinator registers itself under.
const coordinatorAgent = "coordinator"

// BudgetExceededError is returned when every specification candidate is over
// the policy budget. Alternatives come from the cheapest rejected candidate.
type BudgetExceededError struct {
	Alternatives []pricing.Alternative
}

func (e *BudgetExceededError) Error() string {
	return "All spec candidates exceed budget"
}

// Result is the full record of one coordination run.
type Result struct {
	Intent                string            `json:"intent"`
	Extraction            intent.Extraction `json:"extraction"`
	Candidates            []Candidate       `json:"candidates"`
	Selected              *Candidate        `json:"selected,omitempty"`
	AlignmentScore        float64           `json:"alignment_score"`
	Context               Context           `json:"context"`
	Action                values.Action     `json:"action"`
	Aligned               bool              `json:"aligned"`
	Warnings              []string          `json:"warnings,omitempty"`
	ShouldRefine          bool              `json:"should_refine"`
	RefinementInstruction string            `json:"refinement_instruction,omitempty"`
	FinalPhase            Phase             `json:"final_phase"`
	Log                   []string          `json:"coordination_log"`
}

// Coordinator wires the three tiers together around shared value memory.
type Coordinator struct {
	pol       *policy.Policy
	memory    *values.Memory
	extractor *intent.Extractor
	builder   *spec.Builder
	kernel    *pricing.Kernel
	evaluator *Evaluator
	gatherer  ContextGatherer
	executor  Executor
}

// New creates a coordinator and registers it as an agent in the value
// memory so its own actions are alignment-checked.
func New(pol *policy.Policy, memory *values.Memory, workspaceRoot string) *Coordinator {
	memory.RegisterAgent(coordinatorAgent, "coordination")

	return &Coordinator{
		pol:       pol,
		memory:    memory,
		extractor: &intent.Extractor{},
		builder:   spec.NewBuilder(pol),
		kernel:    pricing.NewKernel(),
		evaluator: NewEvaluator(memory),
		gatherer:  &WorkspaceGatherer{Root: workspaceRoot},
		executor:  &RuleExecutor{AgentID: coordinatorAgent},
	}
}

// UseKernel replaces the default pricing kernel, for configurations that
// override the cost weights or thresholds.
func (c *Coordinator) UseKernel(k *pricing.Kernel) {
	c.kernel = k
}

// NewWith creates a coordinator with explicit gatherer and executor, for
// embedding real agents in place of the defaults.
func NewWith(pol *policy.Policy, memory *values.Memory, gatherer ContextGatherer, executor Executor) *Coordinator {
	c := New(pol, memory, "")
	c.gatherer = gatherer
	c.executor = executor
	return c
}

// Coordinate runs the full flow for one intent. A nil error with
// ShouldRefine set means the execution needs another pass; a
// BudgetExceededError means no candidate fit the policy budget.
func (c *Coordinator) Coordinate(taskIntent string) (*Result, error) {
	result := &Result{Intent: taskIntent}
	timer := logging.StartTimer(logging.CategoryCoordinator, "coordinate")
	defer timer.Stop()

	// ------------------------------------------------------------------
	// Tier 1: goals
	// ------------------------------------------------------------------
	c.log(result, PhaseExtractGoals, "extracting goals from intent")

	extraction := c.extractor.Extract(taskIntent)
	result.Extraction = extraction
	c.log(result, PhaseExtractGoals, "emphasis: %v, target: %s",
		extraction.Emphasis, extraction.OptimizationTarget)

	for goal, weight := range extraction.ImpliedGoals {
		if err := c.memory.UpdateGlobalGoal(goal, weight); err != nil {
			return result, fmt.Errorf("failed to update goal %s: %w", goal, err)
		}
		c.log(result, PhaseExtractGoals, "updated %s weight to %.2f", goal, weight)
	}
	if err := c.memory.SetOptimizationTarget(extraction.OptimizationTarget); err != nil {
		return result, fmt.Errorf("failed to set optimization target: %w", err)
	}

	// ------------------------------------------------------------------
	// Tier 2: candidates, pricing, selection
	// ------------------------------------------------------------------
	c.log(result, PhaseGenerateCandidates, "generating specification candidates")

	base, err := c.builder.Generate(taskIntent)
	if err != nil {
		return result, fmt.Errorf("failed to generate specification: %w", err)
	}

	specs := append([]*spec.Specification{base}, spec.DeriveVariants(base)...)
	for _, s := range specs {
		cost := c.kernel.Price(s, c.pol)
		result.Candidates = append(result.Candidates, Candidate{Spec: s, Cost: cost})
		c.log(result, PhasePriceAndSelect, "candidate %q: total=%.1f status=%s",
			s.Intent, cost.Total, cost.BudgetStatus)
	}

	idx, score := c.evaluator.SelectBest(result.Candidates)
	if idx < 0 {
		result.FinalPhase = PhaseError
		c.log(result, PhaseError, "no candidate fits budget")
		return result, &BudgetExceededError{
			Alternatives: cheapestAlternatives(result.Candidates),
		}
	}

	result.Selected = &result.Candidates[idx]
	result.AlignmentScore = score
	c.log(result, PhasePriceAndSelect, "selected %q with alignment %.2f",
		result.Selected.Spec.Intent, score)

	// ------------------------------------------------------------------
	// Tier 3: context, execute, reflect
	// ------------------------------------------------------------------
	ctx, err := c.gatherer.Gather(taskIntent, result.Selected.Spec)
	if err != nil {
		return result, err
	}
	result.Context = ctx
	c.log(result, PhaseGatherContext, "found %d relevant files", len(ctx.RelevantFiles))

	task := Task{
		Type:  "code_generation",
		Spec:  result.Selected.Spec,
		Goals: extraction.Emphasis,
	}
	action, err := c.executor.Execute(task, ctx)
	if err != nil {
		return result, fmt.Errorf("execution failed: %w", err)
	}
	result.Action = action
	c.log(result, PhaseExecute, "executed %s", task.Type)

	state := values.State{ExistingPatterns: ctx.Patterns}
	aligned, warnings := c.memory.ValidateAgentAction(coordinatorAgent, state, action)
	result.Aligned = aligned
	result.Warnings = warnings
	c.log(result, PhaseCheckAlignment, "aligned=%v warnings=%d", aligned, len(warnings))

	if aligned && len(warnings) == 0 {
		result.FinalPhase = PhaseDone
		c.log(result, PhaseDone, "execution aligned with global goals")
		return result, nil
	}

	result.ShouldRefine = true
	result.RefinementInstruction = refinementInstruction(warnings)
	result.FinalPhase = PhaseRefine
	c.log(result, PhaseRefine, "refinement needed")
	return result, nil
}

// cheapestAlternatives picks the alternatives of the candidate closest to
// fitting the budget.
func cheapestAlternatives(candidates []Candidate) []pricing.Alternative {
	best := -1
	for i, c := range candidates {
		if len(c.Cost.Alternatives) == 0 {
			continue
		}
		if best < 0 || c.Cost.Total < candidates[best].Cost.Total {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return candidates[best].Cost.Alternatives
}

func refinementInstruction(warnings []string) string {
	var b strings.Builder
	b.WriteString("Please refine the result to address:\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	return b.String()
}

func (c *Coordinator) log(result *Result, phase Phase, format string, args ...interface{}) {
	msg := fmt.Sprintf("[%s] %s", phase, fmt.Sprintf(format, args...))
	result.Log = append(result.Log, msg)
	logging.Coordinator("%s", msg)
}
