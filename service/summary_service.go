package service

import (
	"context"
	"log"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

const noLedgerDataNotice = "No current financial data available. Please add your income, expenses, and investments to get personalized advice."

// inr renders comma-grouped rupee amounts for the snapshot block.
var inr = message.NewPrinter(language.English)

// SummaryService computes the live financial snapshot from the ledger
// store. It degrades instead of failing: financial advice should still
// attempt to answer general questions when the ledger is unreachable.
type SummaryService struct {
	ledger database.LedgerStore
}

func NewSummaryService(ledger database.LedgerStore) *SummaryService {
	return &SummaryService{ledger: ledger}
}

// Snapshot aggregates the user's finances for the period: income and
// expense flows within the period, investment and loan balances over all
// time, the five most recent income entries and the five largest expense
// categories. Any ledger failure yields a zeroed snapshot carrying the
// no-data notice; this method never returns an error.
func (s *SummaryService) Snapshot(ctx context.Context, userID string, period types.Period) *types.FinancialSnapshot {
	snap := &types.FinancialSnapshot{}

	var err error
	if snap.TotalIncome, err = s.ledger.TotalIncome(ctx, userID, period); err != nil {
		return s.degrade(userID, err)
	}
	if snap.TotalExpenses, err = s.ledger.TotalExpenses(ctx, userID, period); err != nil {
		return s.degrade(userID, err)
	}
	if snap.TotalInvestments, err = s.ledger.TotalInvestments(ctx, userID); err != nil {
		return s.degrade(userID, err)
	}
	if snap.TotalLoanOutstanding, err = s.ledger.TotalLoanOutstanding(ctx, userID); err != nil {
		return s.degrade(userID, err)
	}
	if snap.RecentIncome, err = s.ledger.RecentIncome(ctx, userID, 5); err != nil {
		return s.degrade(userID, err)
	}
	if snap.TopExpenseCategories, err = s.ledger.TopExpenseCategories(ctx, userID, period, 5); err != nil {
		return s.degrade(userID, err)
	}

	snap.NetWorth = snap.TotalInvestments - snap.TotalLoanOutstanding
	snap.CashFlow = snap.TotalIncome - snap.TotalExpenses
	if snap.TotalIncome > 0 {
		snap.SavingsRate = snap.CashFlow / snap.TotalIncome * 100
	}
	return snap
}

func (s *SummaryService) degrade(userID string, err error) *types.FinancialSnapshot {
	log.Printf("Ledger unavailable for user %s, degrading snapshot: %v", userID, err)
	return &types.FinancialSnapshot{Notice: noLedgerDataNotice}
}

// RenderSnapshot formats the snapshot as the textual block handed to the
// completion prompt. The completion capability consumes natural language,
// so this is prose, not a structure.
func RenderSnapshot(snap *types.FinancialSnapshot) string {
	if snap.Notice != "" {
		return snap.Notice
	}

	var b strings.Builder
	inr.Fprintf(&b, "Monthly Income (Current Month): ₹%.2f\n", snap.TotalIncome)
	inr.Fprintf(&b, "Monthly Expenses (Current Month): ₹%.2f\n", snap.TotalExpenses)
	inr.Fprintf(&b, "Total Investments: ₹%.2f\n", snap.TotalInvestments)
	inr.Fprintf(&b, "Total Loan Outstanding: ₹%.2f\n", snap.TotalLoanOutstanding)
	inr.Fprintf(&b, "Net Worth: ₹%.2f\n", snap.NetWorth)
	inr.Fprintf(&b, "Monthly Cash Flow: ₹%.2f\n", snap.CashFlow)
	inr.Fprintf(&b, "Savings Rate: %.1f%%\n", snap.SavingsRate)

	b.WriteString("\nRecent Income Sources:\n")
	for _, income := range snap.RecentIncome {
		source := income.Source
		if source == "" {
			source = "Unknown"
		}
		inr.Fprintf(&b, "- %s: ₹%.2f on %s\n", source, income.Amount, income.Date)
	}

	b.WriteString("\nTop Expense Categories (Current Month):\n")
	for _, category := range snap.TopExpenseCategories {
		inr.Fprintf(&b, "- %s: ₹%.2f\n", category.Category, category.Total)
	}
	return b.String()
}
