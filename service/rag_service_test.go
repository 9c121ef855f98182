package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

func newRAGFixture(t *testing.T, ai AIService) (*RAGService, *IndexService, *fakeEmbedder) {
	t.Helper()
	userIndex, err := database.NewLocalIndex("", database.UserDataCollection)
	require.NoError(t, err)
	knowledgeIndex, err := database.NewLocalIndex("", database.KnowledgeCollection)
	require.NoError(t, err)

	embedder := &fakeEmbedder{}
	ledger := &fakeLedger{income: 100000, expenses: 60000}
	summary := NewSummaryService(ledger)
	indexer := NewIndexService(userIndex, embedder, ledger)
	rag := NewRAGService(embedder, userIndex, knowledgeIndex, summary, ai, 5*time.Second)
	return rag, indexer, embedder
}

func TestRespondEndToEnd(t *testing.T) {
	rag, indexer, embedder := newRAGFixture(t, &fakeAI{reply: "You spent ₹500 on food at D-Mart this month."})
	ctx := context.Background()

	require.NoError(t, indexer.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data: map[string]any{
			"category": "food",
			"amount":   500.0,
			"merchant": "D-Mart",
			"date":     "2026-08-20",
		},
	}))
	callsBefore := embedder.calls

	resp := rag.Respond(ctx, "user-a", "how much did I spend on food")

	assert.True(t, resp.ContextUsed)
	assert.NotEmpty(t, resp.Response)
	assert.Equal(t, []string{
		"Show me my top spending categories this month",
		"How can I reduce my monthly expenses?",
	}, resp.Suggestions)
	assert.Equal(t, 1, embedder.calls-callsBefore, "the query is embedded once and reused for both indices")
}

func TestRespondDoesNotLeakAcrossUsers(t *testing.T) {
	rag, indexer, _ := newRAGFixture(t, &fakeAI{})
	ctx := context.Background()

	require.NoError(t, indexer.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-b",
		Kind:   types.RecordKindExpense,
		Data:   map[string]any{"category": "food", "amount": 999.0},
	}))

	resp := rag.Respond(ctx, "user-a", "how much did I spend on food")

	assert.False(t, resp.ContextUsed, "user-a has no documents; user-b's must not match")
	assert.Equal(t, fallbackSuggestions, resp.Suggestions)
}

func TestRespondDegradesOnCompletionError(t *testing.T) {
	rag, indexer, _ := newRAGFixture(t, &fakeAI{err: types.ErrCompletion})
	ctx := context.Background()

	require.NoError(t, indexer.IndexRecord(ctx, types.FinancialRecord{
		UserID: "user-a",
		Kind:   types.RecordKindExpense,
		Data:   map[string]any{"category": "food", "amount": 500.0},
	}))

	resp := rag.Respond(ctx, "user-a", "how much did I spend on food")

	assert.Equal(t, apologyResponse, resp.Response)
	assert.False(t, resp.ContextUsed)
	assert.Empty(t, resp.Suggestions)
}

func TestRespondDegradesOnEmptyQuery(t *testing.T) {
	rag, _, _ := newRAGFixture(t, &fakeAI{})

	resp := rag.Respond(context.Background(), "user-a", "")

	assert.Equal(t, apologyResponse, resp.Response)
	assert.False(t, resp.ContextUsed)
	assert.Empty(t, resp.Suggestions)
}

func TestDeriveSuggestionsExpenseOnly(t *testing.T) {
	matches := []types.QueryResult{
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindExpense}},
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindExpense}},
	}
	got := deriveSuggestions(matches)
	assert.Equal(t, suggestionTemplates[types.RecordKindExpense], got,
		"a single matched kind yields exactly its two questions, no fallback padding")
}

func TestDeriveSuggestionsPriorityOrderAndTruncation(t *testing.T) {
	matches := []types.QueryResult{
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindLoan}},
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindInvestment}},
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindExpense}},
	}
	got := deriveSuggestions(matches)
	assert.Equal(t, []string{
		"Show me my top spending categories this month",
		"How can I reduce my monthly expenses?",
		"What's my investment portfolio performance?",
	}, got, "expense beats investment beats loan, truncated to three")
}

func TestDeriveSuggestionsFallback(t *testing.T) {
	got := deriveSuggestions(nil)
	assert.Equal(t, fallbackSuggestions, got)

	// Kinds without templates fall through to the generic trio too.
	got = deriveSuggestions([]types.QueryResult{
		{Metadata: types.DocumentMetadata{Kind: types.RecordKindIncome}},
	})
	assert.Equal(t, fallbackSuggestions, got)
}
