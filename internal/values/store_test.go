package values

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "values.db"), 100, 50)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ValueFunctionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadValueFunction()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	vf := DefaultValueFunction()
	require.NoError(t, store.SaveValueFunction(vf))

	loaded, err = store.LoadValueFunction()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, vf.Version, loaded.Version)
	assert.Equal(t, vf.Goals, loaded.Goals)
	assert.Equal(t, vf.Constraints, loaded.Constraints)
	assert.Equal(t, vf.OptimizationTarget, loaded.OptimizationTarget)
}

func TestStore_SaveRejectsInvalidGoal(t *testing.T) {
	store := newTestStore(t)

	vf := DefaultValueFunction()
	vf.Goals[0].Weight = 1.5

	err := store.SaveValueFunction(vf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value function")
}

func TestStore_ValueFunctionUpsert(t *testing.T) {
	store := newTestStore(t)

	vf := DefaultValueFunction()
	require.NoError(t, store.SaveValueFunction(vf))

	vf.OptimizationTarget = TargetMaximizeQuality
	require.NoError(t, store.SaveValueFunction(vf))

	loaded, err := store.LoadValueFunction()
	require.NoError(t, err)
	assert.Equal(t, TargetMaximizeQuality, loaded.OptimizationTarget)
}

func TestStore_AlignmentHistoryPruned(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "values.db"), 5, 50)
	require.NoError(t, err)
	defer store.Close()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		rec := &AlignmentRecord{
			AgentID:   "agent-1",
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Score:     float64(i) / 10,
		}
		require.NoError(t, store.RecordAlignment(rec))
	}

	total, _, _, err := store.CountAlignments()
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	// newest records survive
	records, err := store.GetAlignmentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.InDelta(t, 0.7, records[0].Score, 1e-9)
}

func TestStore_DriftEventsPruned(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "values.db"), 100, 3)
	require.NoError(t, err)
	defer store.Close()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		event := &DriftEvent{
			AgentID:     "agent-1",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			Score:       0.2,
			Description: fmt.Sprintf("event %d", i),
		}
		require.NoError(t, store.RecordDrift(event))
	}

	count, err := store.CountDriftEvents()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	events, err := store.GetDriftEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "event 4", events[0].Description)
}

func TestStore_AlignmentWarningsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rec := &AlignmentRecord{
		AgentID:  "agent-1",
		Score:    0.4,
		Warnings: []string{"DRIFT DETECTED: alignment score 0.40"},
	}
	require.NoError(t, store.RecordAlignment(rec))
	assert.NotEmpty(t, rec.ID)

	records, err := store.GetAlignmentHistory(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.Warnings, records[0].Warnings)
}
