package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowhat82/mockexamify/internal/storage"
	"github.com/sowhat82/mockexamify/internal/types"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "qpool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuestion(id, text string) types.Question {
	return types.Question{
		ID:           id,
		Text:         text,
		Choices:      []string{"alpha", "beta", "gamma"},
		CorrectIndex: 1,
		Explanation:  "Beta is correct because of the framing of the text.",
		Scenario:     "An operator reviews a candidate batch.",
		Topics:       []string{"ops", "review"},
		Difficulty:   types.DifficultyMedium,
		BatchID:      "batch-1",
		IngestedAt:   time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndLoadPool_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	q1 := sampleQuestion("q-1", "Which option is beta?")
	q2 := sampleQuestion("q-2", "Which option comes third?")
	q1.ContentHash = q1.Hash()
	q2.ContentHash = q2.Hash()

	require.NoError(t, s.SavePool(ctx, "Demo", []types.Question{q1, q2}))

	got, err := s.LoadPool(ctx, "Demo")
	require.NoError(t, err)
	require.Len(t, got, 2)

	q1.Pool, q2.Pool = "Demo", "Demo"
	assert.Equal(t, q1, got[0])
	assert.Equal(t, q2, got[1])
}

func TestLoadPool_Unknown(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.LoadPool(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSavePool_Replaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SavePool(ctx, "Demo", []types.Question{sampleQuestion("q-1", "First version?")}))
	require.NoError(t, s.SavePool(ctx, "Demo", []types.Question{sampleQuestion("q-2", "Second version?")}))

	got, err := s.LoadPool(ctx, "Demo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "q-2", got[0].ID)
}

func TestAppendQuestions_PreservesOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SavePool(ctx, "Demo", []types.Question{sampleQuestion("q-1", "Oldest?")}))
	require.NoError(t, s.AppendQuestions(ctx, "Demo", []types.Question{
		sampleQuestion("q-2", "Middle?"),
		sampleQuestion("q-3", "Newest?"),
	}))

	got, err := s.LoadPool(ctx, "Demo")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"q-1", "q-2", "q-3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestAppendQuestions_CreatesPool(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.AppendQuestions(ctx, "Fresh", []types.Question{sampleQuestion("q-1", "Brand new?")}))

	pools, err := s.ListPools(ctx)
	require.NoError(t, err)
	assert.Contains(t, pools, "Fresh")
}

func TestListPools_Sorted(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SavePool(ctx, "zeta", nil))
	require.NoError(t, s.SavePool(ctx, "alpha", nil))

	pools, err := s.ListPools(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, pools)
}

func TestRecordAndListImports(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	older := storage.ImportRecord{
		ID: "imp-1", Pool: "Demo", Source: "batch_a.json",
		Added: 10, Skipped: 2,
		ImportedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	newer := storage.ImportRecord{
		ID: "imp-2", Pool: "Demo", Source: "batch_b.json",
		Added: 4, Skipped: 0,
		ImportedAt: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.RecordImport(ctx, older))
	require.NoError(t, s.RecordImport(ctx, newer))

	got, err := s.ListImports(ctx, "Demo")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "imp-2", got[0].ID, "newest first")
	assert.Equal(t, older, got[1])

	other, err := s.ListImports(ctx, "Other")
	require.NoError(t, err)
	assert.Empty(t, other)
}
