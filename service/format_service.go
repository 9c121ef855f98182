package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arthamitra/finassist-be/types"
)

// FormatRecord renders one financial record as a single descriptive
// sentence for embedding and search. Each kind has a fixed template;
// missing fields render as explicit placeholders so the same record
// always embeds to the same text. Unrecognized kinds fall back to a
// deterministic JSON serialization of the attribute map.
func FormatRecord(kind types.RecordKind, data map[string]any) string {
	switch kind {
	case types.RecordKindIncome:
		return fmt.Sprintf("Income from %s of ₹%s on %s. %s",
			stringAttr(data, "source", "unknown"),
			numAttr(data, "amount"),
			stringAttr(data, "date", ""),
			stringAttr(data, "description", ""))
	case types.RecordKindExpense:
		return fmt.Sprintf("Expense for %s of ₹%s on %s at %s. %s",
			stringAttr(data, "category", "unknown"),
			numAttr(data, "amount"),
			stringAttr(data, "date", ""),
			stringAttr(data, "merchant", "unknown"),
			stringAttr(data, "description", ""))
	case types.RecordKindInvestment:
		return fmt.Sprintf("Investment in %s (%s) of ₹%s on %s. Current value: ₹%s. Goal: %s",
			stringAttr(data, "name", "unknown"),
			stringAttr(data, "type", "unknown"),
			numAttr(data, "amount"),
			stringAttr(data, "date", ""),
			numAttr(data, "current_value"),
			stringAttr(data, "goal", "Not specified"))
	case types.RecordKindLoan:
		return fmt.Sprintf("%s loan of ₹%s at %s%% interest. EMI: ₹%s, Outstanding: ₹%s",
			stringAttr(data, "type", "unknown"),
			numAttr(data, "principal"),
			numAttr(data, "interest_rate"),
			numAttr(data, "emi"),
			numAttr(data, "outstanding"))
	case types.RecordKindInsurance:
		return fmt.Sprintf("%s insurance %s with coverage ₹%s and premium ₹%s",
			stringAttr(data, "type", "unknown"),
			stringAttr(data, "policy_name", "unknown"),
			numAttr(data, "coverage_amount"),
			numAttr(data, "premium"))
	case types.RecordKindBudget:
		return fmt.Sprintf("Budget for %s with total budget ₹%s and savings target ₹%s",
			stringAttr(data, "month", "unknown"),
			numAttr(data, "total_budget"),
			numAttr(data, "savings_target"))
	}
	// json.Marshal sorts map keys, so the fallback is deterministic and
	// can be parsed back when debugging.
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(raw)
}

func stringAttr(data map[string]any, key, fallback string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprintf("%v", v)
}

// numAttr renders a numeric attribute without thousands separators,
// dropping a trailing ".0" the way raw numbers read.
func numAttr(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return "0"
	}
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}
