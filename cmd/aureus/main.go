package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aureus/internal/config"
	"aureus/internal/coordinator"
	"aureus/internal/logging"
	"aureus/internal/policy"
	"aureus/internal/pricing"
	"aureus/internal/values"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	policyPath string
	jsonOutput bool
	driftLimit int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aureus",
	Short: "aureus - value-aligned governance engine for coding agents",
	Long: `aureus coordinates three tiers of governance for agent-driven development:

  1. GVUFD: extracts goals from natural-language intent and compiles
     bounded specifications under a project policy
  2. SPK: prices specification candidates and enforces LOC budgets with
     graduated advisory/warning/rejection thresholds
  3. Value memory: checks every agent action against a shared global
     value function and records alignment drift

State lives under .aureus/ in the workspace.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}

		cfg, err := config.Load(workspace)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		lc := cfg.Logging
		return logging.Initialize(workspace, logging.Config{
			DebugMode:  lc.DebugMode || verbose,
			Level:      lc.Level,
			Categories: lc.Categories,
			JSONFormat: lc.JSONFormat,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// initCmd sets up .aureus/ in the workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize aureus in the current workspace",
	Long: `Creates the .aureus/ directory with a default configuration, a starter
policy, and the value memory database seeded with the default five-goal
value function.`,
	RunE: runInit,
}

// coordinateCmd runs the full three-tier flow for one intent
var coordinateCmd = &cobra.Command{
	Use:   "coordinate [intent]",
	Short: "Run the three-tier coordination flow for an intent",
	Long: `Extracts goals from the intent, generates and prices specification
candidates, selects the best-aligned candidate within budget, executes,
and checks the result for alignment drift.

Example:
  aureus coordinate "build a production-ready payment API"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCoordinate,
}

// goalsCmd shows the current global value function
var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show the global value function",
	RunE:  showGoals,
}

// driftCmd lists recent drift events
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "List recent alignment drift events",
	RunE:  showDrift,
}

// statusCmd summarizes alignment statistics
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show alignment statistics and policy summary",
	RunE:  showStatus,
}

// policyCmd validates and displays the project policy
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Validate and display the project policy",
	RunE:  showPolicy,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Policy file (default: .aureus/policy.yaml)")

	coordinateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full coordination result as JSON")
	driftCmd.Flags().IntVar(&driftLimit, "limit", 20, "Maximum events to show")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(coordinateCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(policyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolvedPolicyPath() string {
	if policyPath != "" {
		return policyPath
	}
	return filepath.Join(workspace, ".aureus", "policy.yaml")
}

func loadPolicy() (*policy.Policy, error) {
	return policy.Load(resolvedPolicyPath())
}

func openMemory() (*values.Memory, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	return values.NewMemory(cfg.DatabasePath(workspace),
		cfg.Values.AlignmentHistoryLimit, cfg.Values.DriftEventLimit)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := config.Save(workspace, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	logger.Info("Wrote configuration", zap.String("path", config.ConfigPath(workspace)))

	pp := resolvedPolicyPath()
	if _, err := os.Stat(pp); os.IsNotExist(err) {
		starter := &policy.Policy{
			Version:     "1.0",
			ProjectName: filepath.Base(workspace),
			ProjectRoot: ".",
			Budgets: policy.Budget{
				MaxLOC:          5000,
				MaxModules:      20,
				MaxFiles:        50,
				MaxDependencies: 10,
			},
		}
		if err := policy.Save(starter, pp); err != nil {
			return fmt.Errorf("failed to write starter policy: %w", err)
		}
		logger.Info("Wrote starter policy", zap.String("path", pp))
	}

	mem, err := openMemory()
	if err != nil {
		return fmt.Errorf("failed to initialize value memory: %w", err)
	}
	defer mem.Close()

	vf := mem.ValueFunction()
	fmt.Printf("Initialized aureus in %s\n", workspace)
	fmt.Printf("Value function: %d goals, target %s\n", len(vf.Goals), vf.OptimizationTarget)
	return nil
}

func runCoordinate(cmd *cobra.Command, args []string) error {
	intent := strings.Join(args, " ")

	pol, err := loadPolicy()
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	mem, err := openMemory()
	if err != nil {
		return err
	}
	defer mem.Close()

	logger.Info("Coordinating", zap.String("intent", intent))

	c := coordinator.New(pol, mem, workspace)
	c.UseKernel(pricing.NewKernelWith(
		&pricing.LinearCostModel{
			LOCWeight:         cfg.Pricing.LOCWeight,
			DependencyWeight:  cfg.Pricing.DependencyWeight,
			AbstractionWeight: cfg.Pricing.AbstractionWeight,
		},
		&pricing.BudgetEnforcer{
			AdvisoryThreshold:  cfg.Pricing.AdvisoryThreshold,
			WarningThreshold:   cfg.Pricing.WarningThreshold,
			RejectionThreshold: cfg.Pricing.RejectionThreshold,
		},
	))
	result, err := c.Coordinate(intent)
	if err != nil {
		if budgetErr, ok := err.(*coordinator.BudgetExceededError); ok {
			fmt.Println("All spec candidates exceed budget. Alternatives:")
			for _, alt := range budgetErr.Alternatives {
				fmt.Printf("  - %s: %s (saves ~%d LOC)\n",
					alt.Strategy, alt.Description, alt.EstimatedSavings)
			}
		}
		return err
	}

	if jsonOutput {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, line := range result.Log {
		fmt.Println(line)
	}
	fmt.Printf("\nSelected: %s\n", result.Selected.Spec.Intent)
	fmt.Printf("Cost: %.1f (status %s)\n", result.Selected.Cost.Total, result.Selected.Cost.BudgetStatus)
	fmt.Printf("Alignment: %.2f, aligned=%v\n", result.AlignmentScore, result.Aligned)
	if result.ShouldRefine {
		fmt.Printf("\n%s", result.RefinementInstruction)
	}
	return nil
}

func showGoals(cmd *cobra.Command, args []string) error {
	mem, err := openMemory()
	if err != nil {
		return err
	}
	defer mem.Close()

	vf := mem.ValueFunction()
	fmt.Printf("Global value function v%s (target: %s)\n\n", vf.Version, vf.OptimizationTarget)
	for _, g := range vf.Goals {
		fmt.Printf("  %-16s weight=%.2f threshold=%.2f  %s\n",
			g.GoalType, g.Weight, g.Threshold, g.Description)
	}
	if len(vf.Constraints) > 0 {
		fmt.Println("\nConstraints:")
		for k, v := range vf.Constraints {
			fmt.Printf("  %s = %g\n", k, v)
		}
	}
	return nil
}

func showDrift(cmd *cobra.Command, args []string) error {
	mem, err := openMemory()
	if err != nil {
		return err
	}
	defer mem.Close()

	events, err := mem.DriftHistory(driftLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No drift events recorded.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  agent=%s score=%.2f  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.AgentID, e.Score, e.Description)
	}
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	mem, err := openMemory()
	if err != nil {
		return err
	}
	defer mem.Close()

	stats, err := mem.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Alignment checks: %d (%d aligned, rate %.0f%%, avg score %.2f)\n",
		stats.TotalChecks, stats.AlignedChecks, stats.AlignmentRate*100, stats.AverageScore)
	fmt.Printf("Drift events:     %d\n", stats.DriftEvents)
	if stats.LastDrift != nil {
		fmt.Printf("Last drift:       %s\n", stats.LastDrift.Format("2006-01-02 15:04:05"))
	}

	if pol, err := loadPolicy(); err == nil {
		fmt.Printf("Policy:           %s (max %d LOC, %d deps)\n",
			pol.ProjectName, pol.Budgets.MaxLOC, pol.Budgets.MaxDependencies)
	} else {
		fmt.Printf("Policy:           not loaded (%v)\n", err)
	}
	return nil
}

func showPolicy(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	fmt.Printf("Policy v%s for %s\n", pol.Version, pol.ProjectName)
	fmt.Printf("Budgets: %d LOC, %d modules, %d files, %d dependencies\n",
		pol.Budgets.MaxLOC, pol.Budgets.MaxModules, pol.Budgets.MaxFiles,
		pol.Budgets.MaxDependencies)
	if len(pol.ForbiddenPatterns) > 0 {
		fmt.Println("Forbidden patterns:")
		for _, p := range pol.ForbiddenPatterns {
			fmt.Printf("  - %s (%s)\n", p.Name, p.Severity)
		}
	}
	return nil
}
