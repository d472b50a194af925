package values

import "strings"

// Scoring heuristics are deliberately cheap: they look at surface features of
// the produced source text, not its semantics. Each starts at 1.0 and takes
// fixed deductions, clamped to [0,1].

func scoreCodeQuality(_ State, action Action) float64 {
	if action.Payload == "" {
		return neutralScore
	}
	score := 1.0
	if !strings.Contains(action.Payload, "// ") {
		score -= 0.2
	}
	if !hasTypeInfo(action.Payload) {
		score -= 0.2
	}
	if !strings.Contains(action.Payload, "err") {
		score -= 0.1
	}
	return clamp01(score)
}

func hasTypeInfo(src string) bool {
	return strings.Contains(src, "func ") &&
		(strings.Contains(src, ") (") || strings.Contains(src, " error") ||
			strings.Contains(src, " string") || strings.Contains(src, " int") ||
			strings.Contains(src, " float64") || strings.Contains(src, " bool"))
}

func scoreMaintainability(_ State, action Action) float64 {
	if action.Payload == "" {
		return neutralScore
	}
	lines := strings.Split(action.Payload, "\n")
	score := 1.0
	if len(lines) > 300 {
		score -= 0.3
	}
	if longestFunction(lines) > 50 {
		score -= 0.2
	}
	return clamp01(score)
}

// longestFunction counts lines between a top-level "func " declaration and
// its closing brace in column zero. Good enough for a heuristic.
func longestFunction(lines []string) int {
	longest, current := 0, 0
	inFunc := false
	for _, line := range lines {
		if strings.HasPrefix(line, "func ") {
			inFunc = true
			current = 0
			continue
		}
		if inFunc {
			if strings.HasPrefix(line, "}") {
				inFunc = false
				if current > longest {
					longest = current
				}
				continue
			}
			current++
		}
	}
	return longest
}

func scoreSimplicity(_ State, action Action) float64 {
	if action.Payload == "" {
		return neutralScore
	}
	score := 1.0
	if strings.Count(action.Payload, "type ") > 3 {
		score -= 0.2
	}
	if maxNesting(action.Payload) > 4 {
		score -= 0.2
	}
	return clamp01(score)
}

func maxNesting(src string) int {
	depth, deepest := 0, 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return deepest
}

// scoreConsistency measures pattern overlap between the action and the
// workspace: |intersection| / |union|. An empty workspace cannot be
// inconsistent, so it scores full marks.
func scoreConsistency(state State, action Action) float64 {
	if len(state.ExistingPatterns) == 0 {
		return 1.0
	}
	existing := make(map[string]bool, len(state.ExistingPatterns))
	for _, p := range state.ExistingPatterns {
		existing[p] = true
	}
	union := make(map[string]bool, len(existing))
	for p := range existing {
		union[p] = true
	}
	overlap := 0
	for _, p := range action.Patterns {
		if existing[p] {
			overlap++
		}
		union[p] = true
	}
	if len(union) == 0 {
		return neutralScore
	}
	return float64(overlap) / float64(len(union))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
