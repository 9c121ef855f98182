package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

// curatedKnowledge is the fixed domain-fact set seeding the shared
// knowledge index: regulatory and monetary facts, investment guidelines
// and static planning heuristics.
var curatedKnowledge = []types.KnowledgeItem{
	{
		Title:    "RBI Repo Rate",
		Content:  "The Reserve Bank of India (RBI) repo rate is the rate at which the RBI lends money to commercial banks. Current repo rate affects home loan, personal loan, and fixed deposit rates.",
		Source:   "RBI",
		Category: "monetary_policy",
	},
	{
		Title:    "Bank Interest Rates",
		Content:  "Fixed deposit rates in India typically range from 3% to 7% depending on tenure and bank. Senior citizens get additional 0.25% to 0.5% interest.",
		Source:   "RBI",
		Category: "banking",
	},
	{
		Title:    "KYC Guidelines",
		Content:  "Know Your Customer (KYC) is mandatory for all financial transactions. Required documents include Aadhaar, PAN card, and address proof for bank accounts and investments.",
		Source:   "RBI",
		Category: "compliance",
	},
	{
		Title:    "Mutual Fund Investment Guidelines",
		Content:  "SEBI recommends SIP investments for retail investors. Diversify across equity, debt, and hybrid funds. Review portfolio annually and rebalance as needed.",
		Source:   "SEBI",
		Category: "investments",
	},
	{
		Title:    "Stock Market Investment",
		Content:  "Equity investments should be made with long-term perspective. Avoid putting all money in one stock. Consider bluechip stocks for stability and growth stocks for returns.",
		Source:   "SEBI",
		Category: "investments",
	},
	{
		Title:    "Tax Saving Investments",
		Content:  "ELSS mutual funds qualify for 80C tax deduction up to ₹1.5 lakh. They have 3-year lock-in period and potential for good returns.",
		Source:   "SEBI",
		Category: "tax_planning",
	},
	{
		Title:    "Emergency Fund",
		Content:  "Maintain emergency fund of 6-12 months expenses in liquid instruments like savings account or liquid funds. This provides financial security during job loss or medical emergencies.",
		Source:   "Financial Planning",
		Category: "financial_planning",
	},
	{
		Title:    "Debt Management",
		Content:  "Pay high-interest debt first (credit cards, personal loans). Consider debt consolidation if multiple loans. Maintain debt-to-income ratio below 40%.",
		Source:   "Financial Planning",
		Category: "debt_management",
	},
	{
		Title:    "Insurance Planning",
		Content:  "Life insurance should be 10-15 times annual income. Health insurance minimum ₹5 lakh for family. Term insurance is most cost-effective for life cover.",
		Source:   "Insurance Planning",
		Category: "insurance",
	},
	{
		Title:    "Retirement Planning",
		Content:  "Start retirement planning early. EPF, PPF, NPS are good tax-saving retirement options. Target retirement corpus of 25-30 times annual expenses.",
		Source:   "Retirement Planning",
		Category: "retirement",
	},
	{
		Title:    "Tax Planning",
		Content:  "Use 80C deductions (EPF, PPF, ELSS, insurance premium). Consider 80D for health insurance premiums. Plan taxes at year beginning for better optimization.",
		Source:   "Tax Planning",
		Category: "tax_planning",
	},
}

// KnowledgeService seeds and queries the shared knowledge index. Seeding
// is a batch job run at initialization or rarely after, never on the
// per-request path.
type KnowledgeService struct {
	index    database.VectorIndex
	embedder Embedder
}

func NewKnowledgeService(index database.VectorIndex, embedder Embedder) *KnowledgeService {
	return &KnowledgeService{index: index, embedder: embedder}
}

// Seed inserts the curated knowledge set. Item ids are content hashes,
// so re-running collides with the already-stored entries; those
// duplicates are logged and skipped, which makes seeding idempotent.
// It returns how many items were newly inserted.
func (s *KnowledgeService) Seed(ctx context.Context) (int, error) {
	inserted := 0
	for _, item := range s.Items() {
		embedding, err := s.embedder.Embed(ctx, item.Content)
		if err != nil {
			return inserted, fmt.Errorf("embed knowledge item %q: %w", item.Title, err)
		}
		err = s.index.Add(ctx, &types.IndexedDocument{
			ID:        item.ID,
			Embedding: embedding,
			Content:   item.Content,
			Metadata: types.DocumentMetadata{
				Title:    item.Title,
				Source:   item.Source,
				Category: item.Category,
			},
		})
		if errors.Is(err, types.ErrDuplicateID) {
			log.Printf("Knowledge item %q already seeded, skipping", item.Title)
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("store knowledge item %q: %w", item.Title, err)
		}
		inserted++
	}
	return inserted, nil
}

// Items returns the curated set with content-hash ids filled in.
func (s *KnowledgeService) Items() []types.KnowledgeItem {
	items := make([]types.KnowledgeItem, len(curatedKnowledge))
	copy(items, curatedKnowledge)
	for i := range items {
		sum := sha256.Sum256([]byte(items[i].Content))
		items[i].ID = hex.EncodeToString(sum[:])
	}
	return items
}

// Search runs an unfiltered nearest-neighbor query over the knowledge
// index with an already-computed query vector.
func (s *KnowledgeService) Search(ctx context.Context, vector []float32, k int) ([]types.QueryResult, error) {
	return s.index.Query(ctx, vector, k, nil)
}
