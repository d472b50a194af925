package values

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"aureus/internal/logging"
)

// AlignmentRecord is one persisted alignment check between an agent's local
// judgment and the global value function.
type AlignmentRecord struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agent_id"`
	Timestamp   time.Time `json:"timestamp"`
	GlobalScore float64   `json:"global_score"`
	LocalScore  float64   `json:"local_score"`
	Score       float64   `json:"score"`
	Aligned     bool      `json:"aligned"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// DriftEvent records an alignment score falling below the drift floor.
type DriftEvent struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agent_id"`
	Timestamp   time.Time `json:"timestamp"`
	Score       float64   `json:"score"`
	Description string    `json:"description"`
}

// Store persists the global value function, alignment history, and drift
// events in sqlite. History tables are pruned to fixed caps on insert.
type Store struct {
	db           *sql.DB
	dbPath       string
	historyLimit int
	driftLimit   int
	mu           sync.RWMutex
}

// NewStore creates or opens the value memory database. Limits of zero or
// below disable pruning for that table.
func NewStore(dbPath string, historyLimit, driftLimit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:           db,
		dbPath:       dbPath,
		historyLimit: historyLimit,
		driftLimit:   driftLimit,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	-- Global value function, one row
	CREATE TABLE IF NOT EXISTS value_function (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL,
		goals_json TEXT NOT NULL,
		constraints_json TEXT,
		optimization_target TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- Alignment check history
	CREATE TABLE IF NOT EXISTS alignment_history (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		global_score REAL NOT NULL,
		local_score REAL NOT NULL,
		score REAL NOT NULL,
		aligned INTEGER NOT NULL,
		warnings_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_alignment_agent ON alignment_history(agent_id);
	CREATE INDEX IF NOT EXISTS idx_alignment_timestamp ON alignment_history(timestamp);

	-- Drift events
	CREATE TABLE IF NOT EXISTS drift_events (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		score REAL NOT NULL,
		description TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drift_agent ON drift_events(agent_id);
	CREATE INDEX IF NOT EXISTS idx_drift_timestamp ON drift_events(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// VALUE FUNCTION OPERATIONS
// =============================================================================

// SaveValueFunction stores or updates the global value function.
func (s *Store) SaveValueFunction(vf *GlobalValueFunction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range vf.Goals {
		if err := g.validate(); err != nil {
			return fmt.Errorf("invalid value function: %w", err)
		}
	}

	goalsJSON, err := json.Marshal(vf.Goals)
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}
	constraintsJSON, _ := json.Marshal(vf.Constraints)

	now := time.Now()
	if vf.CreatedAt.IsZero() {
		vf.CreatedAt = now
	}
	vf.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO value_function (id, version, goals_json, constraints_json,
			optimization_target, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			goals_json = excluded.goals_json,
			constraints_json = excluded.constraints_json,
			optimization_target = excluded.optimization_target,
			updated_at = excluded.updated_at
	`, vf.Version, goalsJSON, constraintsJSON, vf.OptimizationTarget,
		vf.CreatedAt, vf.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save value function: %w", err)
	}
	return nil
}

// LoadValueFunction retrieves the stored value function, or nil if none has
// been saved yet.
func (s *Store) LoadValueFunction() (*GlobalValueFunction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var vf GlobalValueFunction
	var goalsJSON string
	var constraintsJSON sql.NullString

	err := s.db.QueryRow(`
		SELECT version, goals_json, constraints_json, optimization_target,
			created_at, updated_at
		FROM value_function WHERE id = 1
	`).Scan(&vf.Version, &goalsJSON, &constraintsJSON, &vf.OptimizationTarget,
		&vf.CreatedAt, &vf.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load value function: %w", err)
	}

	if err := json.Unmarshal([]byte(goalsJSON), &vf.Goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}
	if constraintsJSON.Valid {
		json.Unmarshal([]byte(constraintsJSON.String), &vf.Constraints)
	}

	return &vf, nil
}

// =============================================================================
// ALIGNMENT HISTORY OPERATIONS
// =============================================================================

// RecordAlignment stores an alignment check and prunes history past the cap.
func (s *Store) RecordAlignment(rec *AlignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	warningsJSON, _ := json.Marshal(rec.Warnings)

	_, err := s.db.Exec(`
		INSERT INTO alignment_history (id, agent_id, timestamp, global_score,
			local_score, score, aligned, warnings_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.AgentID, rec.Timestamp, rec.GlobalScore, rec.LocalScore,
		rec.Score, rec.Aligned, warningsJSON)

	if err != nil {
		return fmt.Errorf("failed to record alignment: %w", err)
	}

	return s.prune("alignment_history", s.historyLimit)
}

// GetAlignmentHistory retrieves the most recent alignment records.
func (s *Store) GetAlignmentHistory(limit int) ([]AlignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, agent_id, timestamp, global_score, local_score, score,
			aligned, warnings_json
		FROM alignment_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AlignmentRecord
	for rows.Next() {
		var rec AlignmentRecord
		var warningsJSON sql.NullString
		if err := rows.Scan(&rec.ID, &rec.AgentID, &rec.Timestamp, &rec.GlobalScore,
			&rec.LocalScore, &rec.Score, &rec.Aligned, &warningsJSON); err != nil {
			continue
		}
		if warningsJSON.Valid {
			json.Unmarshal([]byte(warningsJSON.String), &rec.Warnings)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountAlignments returns the total and aligned record counts plus the mean
// alignment score over the stored history.
func (s *Store) CountAlignments() (total, aligned int, avgScore float64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(aligned), 0), COALESCE(AVG(score), 0)
		FROM alignment_history
	`).Scan(&total, &aligned, &avgScore)
	return total, aligned, avgScore, err
}

// =============================================================================
// DRIFT EVENT OPERATIONS
// =============================================================================

// RecordDrift stores a drift event and prunes past the cap.
func (s *Store) RecordDrift(event *DriftEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO drift_events (id, agent_id, timestamp, score, description)
		VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.AgentID, event.Timestamp, event.Score, event.Description)

	if err != nil {
		return fmt.Errorf("failed to record drift event: %w", err)
	}

	logging.ValuesWarn("drift recorded for agent %s: score=%.2f", event.AgentID, event.Score)
	return s.prune("drift_events", s.driftLimit)
}

// GetDriftEvents retrieves the most recent drift events.
func (s *Store) GetDriftEvents(limit int) ([]DriftEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, agent_id, timestamp, score, description
		FROM drift_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []DriftEvent
	for rows.Next() {
		var event DriftEvent
		if err := rows.Scan(&event.ID, &event.AgentID, &event.Timestamp,
			&event.Score, &event.Description); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CountDriftEvents returns the number of stored drift events.
func (s *Store) CountDriftEvents() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM drift_events`).Scan(&count)
	return count, err
}

// LatestDriftEvent returns the most recent drift event, or nil if none.
func (s *Store) LatestDriftEvent() (*DriftEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var event DriftEvent
	err := s.db.QueryRow(`
		SELECT id, agent_id, timestamp, score, description
		FROM drift_events
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`).Scan(&event.ID, &event.AgentID, &event.Timestamp, &event.Score, &event.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// prune deletes the oldest rows past the cap. Caller holds the write lock.
func (s *Store) prune(table string, limit int) error {
	if limit <= 0 {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id NOT IN (
			SELECT id FROM %s ORDER BY timestamp DESC, id DESC LIMIT ?
		)
	`, table, table)
	_, err := s.db.Exec(query, limit)
	return err
}
