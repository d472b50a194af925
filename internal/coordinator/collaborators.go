package coordinator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"aureus/internal/logging"
	"aureus/internal/spec"
	"aureus/internal/values"
)

// Context is the workspace knowledge gathered before execution.
type Context struct {
	Intent        string      `json:"intent"`
	RelevantFiles []FileMatch `json:"relevant_files,omitempty"`
	Patterns      []string    `json:"patterns,omitempty"`
}

// FileMatch is a workspace file relevant to the intent, with a short
// content preview.
type FileMatch struct {
	Path    string `json:"path"`
	Preview string `json:"preview"`
}

// ContextGatherer collects workspace context for a selected specification.
type ContextGatherer interface {
	Gather(intent string, s *spec.Specification) (Context, error)
}

// Task is the unit of work handed to an executor.
type Task struct {
	Type  string              `json:"type"`
	Spec  *spec.Specification `json:"spec"`
	Goals []string            `json:"goals,omitempty"`
}

// Executor turns a task into a concrete action that can be scored against
// the value function.
type Executor interface {
	Execute(task Task, ctx Context) (values.Action, error)
}

// =============================================================================
// WORKSPACE GATHERER
// =============================================================================

const previewLimit = 500

var wordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// stop words that never help file matching
var stopWords = map[string]bool{
	"create": true, "build": true, "make": true, "implement": true,
	"with": true, "that": true, "this": true, "into": true, "from": true,
}

// WorkspaceGatherer finds files whose names match keywords from the intent.
type WorkspaceGatherer struct {
	Root string
}

// Gather scans the workspace for Go files whose names contain intent
// keywords. A missing workspace yields an empty context, not an error.
func (g *WorkspaceGatherer) Gather(intent string, _ *spec.Specification) (Context, error) {
	ctx := Context{Intent: intent}

	if g.Root == "" {
		return ctx, nil
	}
	if _, err := os.Stat(g.Root); err != nil {
		return ctx, nil
	}

	keywords := intentKeywords(intent)
	if len(keywords) == 0 {
		return ctx, nil
	}

	err := filepath.WalkDir(g.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			// skip hidden trees like .git and .aureus
			if strings.HasPrefix(d.Name(), ".") && path != g.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		name := strings.ToLower(d.Name())
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				content, readErr := os.ReadFile(path)
				if readErr != nil {
					return nil
				}
				preview := string(content)
				if len(preview) > previewLimit {
					preview = preview[:previewLimit]
				}
				ctx.RelevantFiles = append(ctx.RelevantFiles, FileMatch{
					Path:    path,
					Preview: preview,
				})
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to scan workspace: %w", err)
	}

	logging.CoordinatorDebug("context gathered: %d relevant files for %q",
		len(ctx.RelevantFiles), intent)
	return ctx, nil
}

func intentKeywords(intent string) []string {
	words := wordPattern.FindAllString(strings.ToLower(intent), -1)
	var out []string
	for _, w := range words {
		if !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// =============================================================================
// RULE EXECUTOR
// =============================================================================

// RuleExecutor produces a skeleton action from the selected specification.
// It stands in for a real code-generating agent: the action it emits carries
// enough structure to be scored by the value function.
type RuleExecutor struct {
	AgentID string
}

// Execute synthesizes an action for the task. The payload is a scaffold
// derived from the spec's success criteria.
func (e *RuleExecutor) Execute(task Task, ctx Context) (values.Action, error) {
	if task.Spec == nil {
		return values.Action{}, fmt.Errorf("task has no specification")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Package generated for: %s\n", task.Spec.Intent)
	for _, criterion := range task.Spec.SuccessCriteria {
		fmt.Fprintf(&b, "// - %s\n", criterion)
	}
	b.WriteString("func Run() error {\n\treturn nil\n}\n")

	return values.Action{
		AgentID:     e.AgentID,
		Description: fmt.Sprintf("%s: %s", task.Type, task.Spec.Intent),
		Payload:     b.String(),
		Patterns:    ctx.Patterns,
		LOCDelta:    task.Spec.Budgets.MaxLOCDelta,
	}, nil
}
