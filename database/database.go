package database

import (
	"context"

	"github.com/arthamitra/finassist-be/types"
)

// Collection names of the two vector indices. The per-user data index is
// partitioned by user_id metadata; the knowledge index is global.
const (
	UserDataCollection  = "user_financial_data"
	KnowledgeCollection = "financial_knowledge"
)

// VectorIndex stores (vector, text, metadata, id) tuples and answers
// nearest-neighbor queries filtered by metadata equality. Implementations
// must be safe for concurrent readers and writers; the correctness bar is
// that no query ever observes a partial insert.
type VectorIndex interface {
	// Add inserts one document. It fails with types.ErrDuplicateID when
	// the id is already present.
	Add(ctx context.Context, doc *types.IndexedDocument) error

	// Query returns up to k matches, best (lowest distance) first, ties
	// broken by insertion order. It returns fewer than k results when the
	// index is sparse after filtering; it never pads.
	Query(ctx context.Context, vector []float32, k int, filter *types.MetadataFilter) ([]types.QueryResult, error)

	// DeleteWhere bulk-removes every document matching the filter and
	// reports how many were removed. An empty filter is rejected.
	DeleteWhere(ctx context.Context, filter types.MetadataFilter) (int, error)

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close flushes persisted state. The index is unusable afterwards.
	Close() error
}

// LedgerStore is the read-mostly query surface over the external store
// holding the primary financial ledgers. The core never writes ledger
// records itself.
type LedgerStore interface {
	TotalIncome(ctx context.Context, userID string, period types.Period) (float64, error)
	TotalExpenses(ctx context.Context, userID string, period types.Period) (float64, error)

	// Balances are point-in-time, not period-scoped.
	TotalInvestments(ctx context.Context, userID string) (float64, error)
	TotalLoanOutstanding(ctx context.Context, userID string) (float64, error)

	RecentIncome(ctx context.Context, userID string, limit int) ([]types.IncomeEntry, error)
	TopExpenseCategories(ctx context.Context, userID string, period types.Period, limit int) ([]types.CategoryTotal, error)

	// RecordsByUser streams every ledger record of one user, used to
	// rebuild that user's vector index from scratch.
	RecordsByUser(ctx context.Context, userID string) ([]types.FinancialRecord, error)
}
