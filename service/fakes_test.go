package service

import (
	"context"
	"crypto/sha256"

	"github.com/arthamitra/finassist-be/types"
)

// fakeEmbedder derives a deterministic vector from the text hash so the
// same text always embeds identically without a network call.
type fakeEmbedder struct {
	calls int
	fail  error
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	if text == "" {
		return nil, types.ErrEmptyInput
	}
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(sum[i]) / 255
	}
	return vec, nil
}

type fakeAI struct {
	reply string
	err   error
}

func (a *fakeAI) Chat(_ context.Context, prompt string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.reply != "" {
		return a.reply, nil
	}
	return "answer grounded in " + prompt, nil
}

// fakeLedger returns canned aggregates. Setting err fails every call,
// which is how the unreachable-ledger path is exercised.
type fakeLedger struct {
	income      float64
	expenses    float64
	investments float64
	loans       float64
	recent      []types.IncomeEntry
	categories  []types.CategoryTotal
	records     []types.FinancialRecord
	err         error
}

func (l *fakeLedger) TotalIncome(context.Context, string, types.Period) (float64, error) {
	return l.income, l.err
}

func (l *fakeLedger) TotalExpenses(context.Context, string, types.Period) (float64, error) {
	return l.expenses, l.err
}

func (l *fakeLedger) TotalInvestments(context.Context, string) (float64, error) {
	return l.investments, l.err
}

func (l *fakeLedger) TotalLoanOutstanding(context.Context, string) (float64, error) {
	return l.loans, l.err
}

func (l *fakeLedger) RecentIncome(context.Context, string, int) ([]types.IncomeEntry, error) {
	return l.recent, l.err
}

func (l *fakeLedger) TopExpenseCategories(context.Context, string, types.Period, int) ([]types.CategoryTotal, error) {
	return l.categories, l.err
}

func (l *fakeLedger) RecordsByUser(_ context.Context, userID string) ([]types.FinancialRecord, error) {
	if l.err != nil {
		return nil, l.err
	}
	var out []types.FinancialRecord
	for _, r := range l.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}
