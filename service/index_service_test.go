package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

func newIndexFixture(t *testing.T, ledger *fakeLedger) (*IndexService, *database.LocalIndex) {
	t.Helper()
	index, err := database.NewLocalIndex("", database.UserDataCollection)
	require.NoError(t, err)
	return NewIndexService(index, &fakeEmbedder{}, ledger), index
}

func TestIndexRecordStoresTypedMetadata(t *testing.T) {
	svc, index := newIndexFixture(t, &fakeLedger{})
	ctx := context.Background()

	err := svc.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data: map[string]any{
			"category":    "food",
			"amount":      500.0,
			"merchant":    "D-Mart",
			"date":        "2026-08-20",
			"description": "Groceries",
		},
	})
	require.NoError(t, err)

	vec, _ := (&fakeEmbedder{}).Embed(ctx, "groceries")
	matches, err := index.Query(ctx, vec, 5, &types.MetadataFilter{UserID: "user-a"})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	meta := matches[0].Metadata
	assert.Equal(t, "user-a", meta.UserID)
	assert.Equal(t, types.RecordKindExpense, meta.Kind)
	assert.Equal(t, "food", meta.Category)
	assert.Equal(t, 500.0, meta.Amount)
	assert.Equal(t, "Groceries", meta.Description)
	assert.Contains(t, matches[0].Content, "₹500")
}

func TestIndexRecordIdenticalRecordsGetDistinctIDs(t *testing.T) {
	svc, index := newIndexFixture(t, &fakeLedger{})
	ctx := context.Background()

	record := types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data:   map[string]any{"category": "food", "amount": 500.0},
	}
	require.NoError(t, svc.IndexRecord(ctx, record))
	require.NoError(t, svc.IndexRecord(ctx, record))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "same record twice is two documents, not a duplicate-id error")
}

func TestIndexRecordIntAmount(t *testing.T) {
	svc, index := newIndexFixture(t, &fakeLedger{})
	ctx := context.Background()

	err := svc.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindLoan,
		Data:   map[string]any{"amount": 250000},
	})
	require.NoError(t, err)

	vec, _ := (&fakeEmbedder{}).Embed(ctx, "loan")
	matches, err := index.Query(ctx, vec, 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 250000.0, matches[0].Metadata.Amount)
}

func TestReindexUserReplacesExistingDocuments(t *testing.T) {
	ledger := &fakeLedger{
		records: []types.FinancialRecord{
			{UserID: "user-a", Kind: types.RecordKindIncome, Data: map[string]any{"source": "Salary", "amount": 80000.0}},
			{UserID: "user-a", Kind: types.RecordKindExpense, Data: map[string]any{"category": "rent", "amount": 20000.0}},
			{UserID: "user-b", Kind: types.RecordKindExpense, Data: map[string]any{"category": "travel", "amount": 3000.0}},
		},
	}
	svc, index := newIndexFixture(t, ledger)
	ctx := context.Background()

	// Stale entries for user-a and an unrelated user-b document.
	require.NoError(t, svc.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data:   map[string]any{"category": "stale", "amount": 1.0},
	}))
	require.NoError(t, svc.IndexRecord(ctx, ledger.records[2]))

	indexed, err := svc.ReindexUser(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, indexed, "only user-a's ledger records are reindexed")

	vec, _ := (&fakeEmbedder{}).Embed(ctx, "anything")
	matches, err := index.Query(ctx, vec, 10, &types.MetadataFilter{UserID: "user-a"})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, match := range matches {
		assert.NotEqual(t, "stale", match.Metadata.Category)
	}

	others, err := index.Query(ctx, vec, 10, &types.MetadataFilter{UserID: "user-b"})
	require.NoError(t, err)
	assert.Len(t, others, 1, "reindexing user-a leaves user-b's documents alone")
}

func TestIndexRecordEmbedFailure(t *testing.T) {
	index, err := database.NewLocalIndex("", database.UserDataCollection)
	require.NoError(t, err)
	svc := NewIndexService(index, &fakeEmbedder{fail: types.ErrEmptyInput}, &fakeLedger{})

	err = svc.IndexRecord(context.Background(), types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data:   map[string]any{"category": "food", "amount": 500.0},
	})
	assert.ErrorIs(t, err, types.ErrEmptyInput)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count, "nothing is stored when embedding fails")
}
