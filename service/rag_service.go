package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
	"github.com/arthamitra/finassist-be/utils"
)

const (
	userMatchLimit      = 5
	knowledgeMatchLimit = 3
	maxSuggestions      = 3

	apologyResponse = "I'm sorry, I encountered an error processing your request. Please try again."
)

const promptTemplate = `You are a personal finance assistant AI. Use the following context to answer the user's question.

Context:
%s

User Question: %s

Instructions:
1. Provide personalized advice based on the user's financial data
2. Use specific numbers and dates from their data when relevant
3. Reference financial regulations and best practices from the knowledge base
4. Be conversational but professional
5. If you don't have enough context, ask for more information
6. Always provide actionable insights
7. Format amounts in Indian Rupees (₹)
8. If the user asks about their financial data and you have access to it, provide specific details

Response:`

// suggestionTemplates maps a record kind to its follow-up questions. The
// kind order is fixed (expense, then investment, then loan) so the same
// set of matches always yields the same suggestions.
var suggestionTemplates = map[types.RecordKind][]string{
	types.RecordKindExpense: {
		"Show me my top spending categories this month",
		"How can I reduce my monthly expenses?",
	},
	types.RecordKindInvestment: {
		"What's my investment portfolio performance?",
		"Should I diversify my investments?",
	},
	types.RecordKindLoan: {
		"Which loan should I pay off first?",
		"How can I reduce my EMI burden?",
	},
}

var fallbackSuggestions = []string{
	"What's my current financial summary?",
	"How much did I save last month?",
	"Give me investment advice based on my profile",
}

// RAGService orchestrates the retrieval-augmented response pipeline:
// embed the query once, retrieve from the per-user and knowledge indices,
// fetch the live snapshot, assemble the grounded prompt, complete, and
// derive follow-up suggestions.
type RAGService struct {
	embedder       Embedder
	userIndex      database.VectorIndex
	knowledgeIndex database.VectorIndex
	summary        *SummaryService
	ai             AIService
	timeout        time.Duration
}

func NewRAGService(
	embedder Embedder,
	userIndex, knowledgeIndex database.VectorIndex,
	summary *SummaryService,
	ai AIService,
	timeout time.Duration,
) *RAGService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RAGService{
		embedder:       embedder,
		userIndex:      userIndex,
		knowledgeIndex: knowledgeIndex,
		summary:        summary,
		ai:             ai,
		timeout:        timeout,
	}
}

// Respond answers one chat query. It always returns a well-formed
// response: any pipeline failure (embedding, index, completion, timeout)
// degrades to a fixed apology with context_used=false and no suggestions.
func (s *RAGService) Respond(ctx context.Context, userID, query string) *types.ChatResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.respond(ctx, userID, query)
	if err != nil {
		log.Printf("Error generating response for user %s: %v", userID, err)
		return &types.ChatResponse{
			Response:    apologyResponse,
			ContextUsed: false,
			Suggestions: []string{},
		}
	}
	return resp
}

func (s *RAGService) respond(ctx context.Context, userID, query string) (*types.ChatResponse, error) {
	// One embedding serves both index queries.
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// The two retrievals and the snapshot fetch are independent.
	var (
		userMatches      []types.QueryResult
		knowledgeMatches []types.QueryResult
		snapshot         *types.FinancialSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Queries against the user index always carry the user filter;
		// cross-user leakage would be a correctness violation.
		var err error
		userMatches, err = s.userIndex.Query(gctx, queryVector, userMatchLimit,
			&types.MetadataFilter{UserID: userID})
		return err
	})
	g.Go(func() error {
		var err error
		knowledgeMatches, err = s.knowledgeIndex.Query(gctx, queryVector, knowledgeMatchLimit, nil)
		return err
	})
	g.Go(func() error {
		snapshot = s.summary.Snapshot(gctx, userID, utils.CurrentMonthPeriod())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	contextBlock := buildContext(snapshot, userMatches, knowledgeMatches)
	prompt := fmt.Sprintf(promptTemplate, contextBlock, query)

	answer, err := s.ai.Chat(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &types.ChatResponse{
		Response:    answer,
		ContextUsed: len(userMatches) > 0 || len(knowledgeMatches) > 0,
		Suggestions: deriveSuggestions(userMatches),
	}, nil
}

// buildContext assembles the grounded context in fixed order: live
// snapshot, then user history matches, then knowledge matches.
func buildContext(snapshot *types.FinancialSnapshot, userMatches, knowledgeMatches []types.QueryResult) string {
	var b strings.Builder
	b.WriteString("Current Financial Summary:\n")
	b.WriteString(RenderSnapshot(snapshot))

	b.WriteString("\nUser Financial Data from History:\n")
	for _, match := range userMatches {
		b.WriteString("- ")
		b.WriteString(match.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nFinancial Knowledge:\n")
	for _, match := range knowledgeMatches {
		b.WriteString("- ")
		b.WriteString(match.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// deriveSuggestions walks the record kinds present among the user-history
// matches in fixed priority order and collects each kind's follow-up
// questions. When no kind matched, the generic trio is returned. The
// result is truncated to three.
func deriveSuggestions(userMatches []types.QueryResult) []string {
	present := make(map[types.RecordKind]bool)
	for _, match := range userMatches {
		if match.Metadata.Kind != "" {
			present[match.Metadata.Kind] = true
		}
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, kind := range types.OrderedRecordKinds {
		if !present[kind] {
			continue
		}
		suggestions = append(suggestions, suggestionTemplates[kind]...)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, fallbackSuggestions...)
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
