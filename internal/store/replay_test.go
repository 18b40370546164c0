package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_Deterministic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun(t, "run-1"))
	require.NoError(t, err)

	res, err := s.Replay(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, res.Deterministic)
	assert.Empty(t, res.Differences)
	assert.Equal(t, 1, res.Recomputed.Count)
}

func TestReplay_DetectsTamperedCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun(t, "run-1"))
	require.NoError(t, err)

	_, err = s.db.Exec("UPDATE runs SET in_range = 4 WHERE id = ?", "run-1")
	require.NoError(t, err)

	res, err := s.Replay(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, res.Deterministic)
	assert.Contains(t, res.Differences, "in_range: recorded 4, recomputed 1")
}

func TestReplay_DetectsTamperedValues(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun(t, "run-1"))
	require.NoError(t, err)

	_, err = s.db.Exec("UPDATE run_values SET bmi = 99 WHERE run_id = ? AND idx = 0", "run-1")
	require.NoError(t, err)

	res, err := s.Replay(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, res.Deterministic)
	assert.Contains(t, res.Differences, "values differ")
}

func TestReplay_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Replay(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
