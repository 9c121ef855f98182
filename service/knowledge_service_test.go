package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthamitra/finassist-be/database"
)

func TestSeedIsIdempotent(t *testing.T) {
	index, err := database.NewLocalIndex("", database.KnowledgeCollection)
	require.NoError(t, err)
	ks := NewKnowledgeService(index, &fakeEmbedder{})
	ctx := context.Background()

	inserted, err := ks.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(curatedKnowledge), inserted)
	countAfterFirst, err := index.Count(ctx)
	require.NoError(t, err)

	inserted, err = ks.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted, "re-seeding skips every already-stored item")
	countAfterSecond, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, countAfterFirst, countAfterSecond)
}

func TestItemsHaveStableContentHashIDs(t *testing.T) {
	ks := NewKnowledgeService(nil, nil)

	first := ks.Items()
	second := ks.Items()
	require.Len(t, first, len(curatedKnowledge))

	seen := make(map[string]bool)
	for i, item := range first {
		assert.Len(t, item.ID, 64, "ids are hex content hashes")
		assert.Equal(t, second[i].ID, item.ID, "ids are derived, not random")
		assert.False(t, seen[item.ID], "item %q reuses another item's id", item.Title)
		seen[item.ID] = true
	}
}

func TestSearchReturnsSeededItems(t *testing.T) {
	index, err := database.NewLocalIndex("", database.KnowledgeCollection)
	require.NoError(t, err)
	embedder := &fakeEmbedder{}
	ks := NewKnowledgeService(index, embedder)
	ctx := context.Background()

	_, err = ks.Seed(ctx)
	require.NoError(t, err)

	vector, err := embedder.Embed(ctx, "how do ELSS funds save tax")
	require.NoError(t, err)
	matches, err := ks.Search(ctx, vector, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for _, match := range matches {
		assert.NotEmpty(t, match.Content)
		assert.NotEmpty(t, match.Metadata.Title)
	}
}
