package values

import (
	"fmt"
	"sync"
	"time"

	"aureus/internal/logging"
)

// Memory owns the global value function, the registered agents' local
// functions, and the persisted alignment/drift history.
type Memory struct {
	store  *Store
	vf     *GlobalValueFunction
	agents map[string]*LocalValueFunction
	mu     sync.RWMutex
}

// NewMemory opens (or creates) the value memory at dbPath. A missing or
// empty database starts from the default value function; a corrupt stored
// function is replaced by the defaults rather than failing startup.
func NewMemory(dbPath string, historyLimit, driftLimit int) (*Memory, error) {
	store, err := NewStore(dbPath, historyLimit, driftLimit)
	if err != nil {
		return nil, err
	}

	vf, err := store.LoadValueFunction()
	if err != nil {
		logging.ValuesWarn("failed to load value function, using defaults: %v", err)
		vf = nil
	}
	if vf == nil {
		vf = DefaultValueFunction()
		if err := store.SaveValueFunction(vf); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed value function: %w", err)
		}
	}

	return &Memory{
		store:  store,
		vf:     vf,
		agents: make(map[string]*LocalValueFunction),
	}, nil
}

// Close releases the underlying store.
func (m *Memory) Close() error {
	return m.store.Close()
}

// ValueFunction returns a snapshot copy of the current global function.
func (m *Memory) ValueFunction() GlobalValueFunction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := *m.vf
	snap.Goals = append([]GlobalGoal(nil), m.vf.Goals...)
	snap.Constraints = make(map[string]float64, len(m.vf.Constraints))
	for k, v := range m.vf.Constraints {
		snap.Constraints[k] = v
	}
	return snap
}

// RegisterAgent derives and stores a local value function for the agent.
// Re-registering replaces the previous local function.
func (m *Memory) RegisterAgent(agentID, role string) *LocalValueFunction {
	m.mu.Lock()
	defer m.mu.Unlock()

	lf := NewLocalValueFunction(agentID, role)
	m.agents[agentID] = lf
	logging.Values("registered agent %s with role %s", agentID, role)
	return lf
}

// Agent returns the local value function for agentID, or nil.
func (m *Memory) Agent(agentID string) *LocalValueFunction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.agents[agentID]
}

// ValidateAgentAction checks an action by agentID against the global value
// function. An unregistered agent is allowed through with a warning rather
// than blocked. Every check is persisted; a check whose alignment score
// falls below the drift floor additionally records a drift event and gets a
// DRIFT DETECTED warning prepended.
func (m *Memory) ValidateAgentAction(agentID string, state State, action Action) (bool, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lf, ok := m.agents[agentID]
	if !ok {
		logging.ValuesWarn("action from unregistered agent %s", agentID)
		return true, []string{"Agent not registered"}
	}

	check := CheckAlignment(m.vf, lf, state, action)
	lf.AlignmentScore = check.Score

	warnings := check.Warnings
	if check.Score < driftFloor {
		event := &DriftEvent{
			AgentID:     agentID,
			Score:       check.Score,
			Description: fmt.Sprintf("Agent %s drifted from global goals", agentID),
		}
		if err := m.store.RecordDrift(event); err != nil {
			logging.StoreError("failed to record drift: %v", err)
		}
		warnings = append([]string{
			fmt.Sprintf("DRIFT DETECTED: alignment score %.2f", check.Score),
		}, warnings...)
	}

	rec := &AlignmentRecord{
		AgentID:     agentID,
		GlobalScore: check.GlobalScore,
		LocalScore:  check.LocalScore,
		Score:       check.Score,
		Aligned:     check.Aligned,
		Warnings:    warnings,
	}
	if err := m.store.RecordAlignment(rec); err != nil {
		logging.StoreError("failed to record alignment: %v", err)
	}

	return check.Aligned, warnings
}

// UpdateGlobalGoal adjusts the weight of one goal and persists the change.
// Unknown goal types are ignored.
func (m *Memory) UpdateGlobalGoal(goal GoalType, weight float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.vf.Goals {
		if m.vf.Goals[i].GoalType == goal {
			m.vf.Goals[i].Weight = weight
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	m.vf.UpdatedAt = time.Now()
	logging.Values("goal %s weight set to %.2f", goal, weight)
	return m.store.SaveValueFunction(m.vf)
}

// SetOptimizationTarget switches the system-wide optimization posture.
func (m *Memory) SetOptimizationTarget(target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vf.OptimizationTarget == target {
		return nil
	}
	m.vf.OptimizationTarget = target
	m.vf.UpdatedAt = time.Now()
	logging.Values("optimization target set to %s", target)
	return m.store.SaveValueFunction(m.vf)
}

// Statistics summarizes the persisted alignment history.
type Statistics struct {
	TotalChecks     int        `json:"total_checks"`
	AlignedChecks   int        `json:"aligned_checks"`
	AlignmentRate   float64    `json:"alignment_rate"`
	AverageScore    float64    `json:"average_score"`
	DriftEvents     int        `json:"drift_events"`
	LastDrift       *time.Time `json:"last_drift,omitempty"`
	RegisteredAgent int        `json:"registered_agents"`
}

// Stats computes summary statistics over the stored history.
func (m *Memory) Stats() (Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total, aligned, avgScore, err := m.store.CountAlignments()
	if err != nil {
		return Statistics{}, err
	}
	drift, err := m.store.CountDriftEvents()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		TotalChecks:     total,
		AlignedChecks:   aligned,
		AverageScore:    avgScore,
		DriftEvents:     drift,
		RegisteredAgent: len(m.agents),
	}
	if total > 0 {
		stats.AlignmentRate = float64(aligned) / float64(total)
	}
	if drift > 0 {
		last, err := m.store.LatestDriftEvent()
		if err != nil {
			return Statistics{}, err
		}
		if last != nil {
			stats.LastDrift = &last.Timestamp
		}
	}
	return stats, nil
}

// History returns the most recent alignment records.
func (m *Memory) History(limit int) ([]AlignmentRecord, error) {
	return m.store.GetAlignmentHistory(limit)
}

// DriftHistory returns the most recent drift events.
func (m *Memory) DriftHistory(limit int) ([]DriftEvent, error) {
	return m.store.GetDriftEvents(limit)
}
