package types

// RecordKind tags the variant of a financial record.
type RecordKind string

const (
	RecordKindIncome     RecordKind = "income"
	RecordKindExpense    RecordKind = "expense"
	RecordKindInvestment RecordKind = "investment"
	RecordKindLoan       RecordKind = "loan"
	RecordKindInsurance  RecordKind = "insurance"
	RecordKindBudget     RecordKind = "budget"
)

// OrderedRecordKinds fixes the iteration order wherever record kinds are
// walked. Suggestion derivation depends on this order being stable.
var OrderedRecordKinds = []RecordKind{
	RecordKindExpense,
	RecordKindInvestment,
	RecordKindLoan,
	RecordKindIncome,
	RecordKindInsurance,
	RecordKindBudget,
}

// FinancialRecord is one entry of a user's ledger as the core sees it:
// a kind tag plus the variant's attribute map. The ledger store owns the
// schema; the core only formats and embeds it. Records are immutable once
// embedded - updates create new index entries.
type FinancialRecord struct {
	UserID string         `json:"user_id"`
	Kind   RecordKind     `json:"kind"`
	Data   map[string]any `json:"data"`
}

// IncomeEntry is a single income row surfaced in the financial snapshot.
type IncomeEntry struct {
	Source string  `json:"source" bson:"source"`
	Amount float64 `json:"amount" bson:"amount"`
	Date   string  `json:"date" bson:"date"`
}

// CategoryTotal is a summed expense category in the financial snapshot.
type CategoryTotal struct {
	Category string  `json:"category" bson:"_id"`
	Total    float64 `json:"total" bson:"total"`
}
