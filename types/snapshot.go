package types

import "time"

// Period is a half-open-ish date range used for flow aggregations.
// Both bounds are inclusive the way the ledger queries them.
type Period struct {
	Start time.Time
	End   time.Time
}

// FinancialSnapshot is the live numeric picture of a user's finances,
// recomputed per request from the ledger store. It is derived state and
// never persisted in a vector index.
//
// Invariants:
//
//	NetWorth    = TotalInvestments - TotalLoanOutstanding
//	CashFlow    = TotalIncome - TotalExpenses
//	SavingsRate = CashFlow / TotalIncome * 100, or 0 when TotalIncome is 0
type FinancialSnapshot struct {
	TotalIncome          float64 `json:"total_income"`
	TotalExpenses        float64 `json:"total_expenses"`
	TotalInvestments     float64 `json:"total_investments"`
	TotalLoanOutstanding float64 `json:"total_loan_outstanding"`
	NetWorth             float64 `json:"net_worth"`
	CashFlow             float64 `json:"cash_flow"`
	SavingsRate          float64 `json:"savings_rate"`

	RecentIncome         []IncomeEntry   `json:"recent_income"`
	TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`

	// Notice is set when the ledger store is unreachable or empty and the
	// snapshot degraded to zeros instead of failing.
	Notice string `json:"notice,omitempty"`
}
