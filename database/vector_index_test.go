package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthamitra/finassist-be/types"
)

func newDoc(id, userID, content string, vec []float32) *types.IndexedDocument {
	return &types.IndexedDocument{
		ID:        id,
		Embedding: vec,
		Content:   content,
		Metadata: types.DocumentMetadata{
			UserID: userID,
			Kind:   types.RecordKindExpense,
		},
	}
}

func TestLocalIndexQueryFilterCardinality(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		vec := []float32{1, float32(i) * 0.1, 0}
		require.NoError(t, ix.Add(ctx, newDoc(fmt.Sprintf("a-%d", i), "user-a", "match", vec)))
	}
	for i := 0; i < 10; i++ {
		vec := []float32{1, 0, float32(i) * 0.1}
		require.NoError(t, ix.Add(ctx, newDoc(fmt.Sprintf("b-%d", i), "user-b", "other", vec)))
	}

	results, err := ix.Query(ctx, []float32{1, 0, 0}, 5, &types.MetadataFilter{UserID: "user-a"})
	require.NoError(t, err)
	require.Len(t, results, 3, "filtered query returns only matching docs, never padded")

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance,
			"distances must be monotonically non-decreasing")
	}
}

func TestLocalIndexUserIsolation(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	// Identical content for both users; only metadata separates them.
	vec := []float32{0.5, 0.5, 0}
	require.NoError(t, ix.Add(ctx, newDoc("a-1", "user-a", "Expense for food of ₹500", vec)))
	require.NoError(t, ix.Add(ctx, newDoc("b-1", "user-b", "Expense for food of ₹500", vec)))

	results, err := ix.Query(ctx, vec, 5, &types.MetadataFilter{UserID: "user-a"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "user-a", r.Metadata.UserID)
	}
}

func TestLocalIndexTiesBreakByInsertionOrder(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	vec := []float32{1, 0, 0}
	for i := 0; i < 4; i++ {
		require.NoError(t, ix.Add(ctx, newDoc(fmt.Sprintf("doc-%d", i), "user-a", fmt.Sprintf("content-%d", i), vec)))
	}

	results, err := ix.Query(ctx, vec, 4, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("content-%d", i), r.Content)
	}
}

func TestLocalIndexDuplicateID(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	doc := newDoc("same-id", "user-a", "once", []float32{1, 0, 0})
	require.NoError(t, ix.Add(ctx, doc))
	err = ix.Add(ctx, doc)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestLocalIndexDeleteWhere(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, newDoc("a-1", "user-a", "x", []float32{1, 0, 0})))
	require.NoError(t, ix.Add(ctx, newDoc("a-2", "user-a", "y", []float32{0, 1, 0})))
	require.NoError(t, ix.Add(ctx, newDoc("b-1", "user-b", "z", []float32{0, 0, 1})))

	removed, err := ix.DeleteWhere(ctx, types.MetadataFilter{UserID: "user-a"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The freed ids are reusable after deletion.
	require.NoError(t, ix.Add(ctx, newDoc("a-1", "user-a", "x", []float32{1, 0, 0})))

	_, err = ix.DeleteWhere(ctx, types.MetadataFilter{})
	assert.Error(t, err, "an empty filter must not wipe the index")
}

func TestLocalIndexPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	ix, err := NewLocalIndex(dir, KnowledgeCollection)
	require.NoError(t, err)
	require.NoError(t, ix.Add(ctx, newDoc("k-1", "", "emergency fund guidance", []float32{0.2, 0.8, 0})))
	require.NoError(t, ix.Close())

	reopened, err := NewLocalIndex(dir, KnowledgeCollection)
	require.NoError(t, err)
	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := reopened.Query(ctx, []float32{0.2, 0.8, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "emergency fund guidance", results[0].Content)
}

func TestLocalIndexDimensionMismatch(t *testing.T) {
	ix, err := NewLocalIndex("", UserDataCollection)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, newDoc("a-1", "user-a", "x", []float32{1, 0, 0})))
	err = ix.Add(ctx, newDoc("a-2", "user-a", "y", []float32{1, 0}))
	assert.ErrorIs(t, err, types.ErrIndexUnavailable)
}
