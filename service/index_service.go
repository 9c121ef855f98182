package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

// IndexService maintains the per-user data index. The index is an
// append-only log over the ledger, not a synchronized mirror: records are
// embedded once at creation time and never mutated, and a full rebuild is
// delete-then-insert per user.
type IndexService struct {
	userIndex database.VectorIndex
	embedder  Embedder
	ledger    database.LedgerStore
}

func NewIndexService(userIndex database.VectorIndex, embedder Embedder, ledger database.LedgerStore) *IndexService {
	return &IndexService{
		userIndex: userIndex,
		embedder:  embedder,
		ledger:    ledger,
	}
}

// IndexRecord formats, embeds and stores one financial record. Ids carry
// a fresh random component, so repeated identical records never collide.
func (s *IndexService) IndexRecord(ctx context.Context, record types.FinancialRecord) error {
	text := FormatRecord(record.Kind, record.Data)
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s record: %w", record.Kind, err)
	}

	doc := &types.IndexedDocument{
		ID:        fmt.Sprintf("%s_%s_%s", record.UserID, record.Kind, uuid.NewString()),
		Embedding: embedding,
		Content:   text,
		Metadata:  recordMetadata(record),
	}
	if err := s.userIndex.Add(ctx, doc); err != nil {
		return fmt.Errorf("index %s record: %w", record.Kind, err)
	}
	return nil
}

// ClearUser bulk-removes every indexed document of one user.
func (s *IndexService) ClearUser(ctx context.Context, userID string) (int, error) {
	return s.userIndex.DeleteWhere(ctx, types.MetadataFilter{UserID: userID})
}

// ReindexUser rebuilds one user's slice of the index from the ledger:
// full replace, existing entries deleted first. Returns how many records
// were indexed.
func (s *IndexService) ReindexUser(ctx context.Context, userID string) (int, error) {
	removed, err := s.ClearUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear user %s: %w", userID, err)
	}
	log.Printf("Cleared %d indexed documents for user %s", removed, userID)

	records, err := s.ledger.RecordsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load ledger records for %s: %w", userID, err)
	}
	indexed := 0
	for _, record := range records {
		if err := s.IndexRecord(ctx, record); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}

// recordMetadata builds the typed scalar metadata from a record's
// attribute map. Fields absent from the record stay zero; nothing is
// coerced through stringification.
func recordMetadata(record types.FinancialRecord) types.DocumentMetadata {
	meta := types.DocumentMetadata{
		UserID:      record.UserID,
		Kind:        record.Kind,
		Timestamp:   stringAttr(record.Data, "created_at", ""),
		Category:    stringAttr(record.Data, "category", ""),
		Description: stringAttr(record.Data, "description", ""),
	}
	switch amount := record.Data["amount"].(type) {
	case float64:
		meta.Amount = amount
	case float32:
		meta.Amount = float64(amount)
	case int:
		meta.Amount = float64(amount)
	case int64:
		meta.Amount = float64(amount)
	}
	return meta
}
