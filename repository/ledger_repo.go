package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/types"
)

// Ledger collection names, one per record kind.
var ledgerCollections = map[string]types.RecordKind{
	"income":      types.RecordKindIncome,
	"expenses":    types.RecordKindExpense,
	"investments": types.RecordKindInvestment,
	"loans":       types.RecordKindLoan,
	"insurance":   types.RecordKindInsurance,
	"budgets":     types.RecordKindBudget,
}

type ledgerRepo struct {
	db *mongo.Database
}

// NewLedgerRepo builds the LedgerStore over the Mongo database holding
// the primary financial ledgers.
func NewLedgerRepo(db *mongo.Database) database.LedgerStore {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) TotalIncome(ctx context.Context, userID string, period types.Period) (float64, error) {
	return r.sumAmounts(ctx, "income", bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": period.Start, "$lte": period.End},
	}, "$amount")
}

func (r *ledgerRepo) TotalExpenses(ctx context.Context, userID string, period types.Period) (float64, error) {
	return r.sumAmounts(ctx, "expenses", bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": period.Start, "$lte": period.End},
	}, "$amount")
}

func (r *ledgerRepo) TotalInvestments(ctx context.Context, userID string) (float64, error) {
	return r.sumAmounts(ctx, "investments", bson.M{"user_id": userID}, "$amount")
}

func (r *ledgerRepo) TotalLoanOutstanding(ctx context.Context, userID string) (float64, error) {
	return r.sumAmounts(ctx, "loans", bson.M{"user_id": userID}, "$outstanding")
}

func (r *ledgerRepo) sumAmounts(ctx context.Context, collection string, match bson.M, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": field}}}},
	}
	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("%w: aggregate %s: %v", types.ErrLedgerUnavailable, collection, err)
	}
	defer cursor.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("%w: decode %s total: %v", types.ErrLedgerUnavailable, collection, err)
		}
	}
	return row.Total, cursor.Err()
}

func (r *ledgerRepo) RecentIncome(ctx context.Context, userID string, limit int) ([]types.IncomeEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"source": 1, "amount": 1, "date": 1})
	cursor, err := r.db.Collection("income").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find recent income: %v", types.ErrLedgerUnavailable, err)
	}
	defer cursor.Close(ctx)

	var entries []types.IncomeEntry
	for cursor.Next(ctx) {
		var row struct {
			Source string  `bson:"source"`
			Amount float64 `bson:"amount"`
			Date   any     `bson:"date"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: decode income entry: %v", types.ErrLedgerUnavailable, err)
		}
		entries = append(entries, types.IncomeEntry{
			Source: row.Source,
			Amount: row.Amount,
			Date:   renderDate(row.Date),
		})
	}
	return entries, cursor.Err()
}

func (r *ledgerRepo) TopExpenseCategories(ctx context.Context, userID string, period types.Period, limit int) ([]types.CategoryTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"date":    bson.M{"$gte": period.Start, "$lte": period.End},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "total": bson.M{"$sum": "$amount"}}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.db.Collection("expenses").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate expense categories: %v", types.ErrLedgerUnavailable, err)
	}
	defer cursor.Close(ctx)

	var categories []types.CategoryTotal
	for cursor.Next(ctx) {
		var row types.CategoryTotal
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: decode expense category: %v", types.ErrLedgerUnavailable, err)
		}
		categories = append(categories, row)
	}
	return categories, cursor.Err()
}

func (r *ledgerRepo) RecordsByUser(ctx context.Context, userID string) ([]types.FinancialRecord, error) {
	var records []types.FinancialRecord
	for collection, kind := range ledgerCollections {
		cursor, err := r.db.Collection(collection).Find(ctx, bson.M{"user_id": userID})
		if err != nil {
			return nil, fmt.Errorf("%w: find %s: %v", types.ErrLedgerUnavailable, collection, err)
		}
		for cursor.Next(ctx) {
			var row bson.M
			if err := cursor.Decode(&row); err != nil {
				cursor.Close(ctx)
				return nil, fmt.Errorf("%w: decode %s record: %v", types.ErrLedgerUnavailable, collection, err)
			}
			records = append(records, types.FinancialRecord{
				UserID: userID,
				Kind:   kind,
				Data:   normalizeRecord(row),
			})
		}
		if err := cursor.Err(); err != nil {
			cursor.Close(ctx)
			return nil, fmt.Errorf("%w: iterate %s: %v", types.ErrLedgerUnavailable, collection, err)
		}
		cursor.Close(ctx)
	}
	return records, nil
}

// normalizeRecord flattens a raw ledger document into the attribute map
// the formatter consumes: identifiers dropped, dates rendered as
// YYYY-MM-DD strings, numbers as float64.
func normalizeRecord(row bson.M) map[string]any {
	data := make(map[string]any, len(row))
	for key, value := range row {
		if key == "_id" || key == "user_id" {
			continue
		}
		switch v := value.(type) {
		case bson.DateTime:
			data[key] = v.Time().UTC().Format("2006-01-02")
		case time.Time:
			data[key] = v.UTC().Format("2006-01-02")
		case int32:
			data[key] = float64(v)
		case int64:
			data[key] = float64(v)
		default:
			data[key] = value
		}
	}
	return data
}

func renderDate(v any) string {
	switch d := v.(type) {
	case bson.DateTime:
		return d.Time().UTC().Format("2006-01-02")
	case time.Time:
		return d.UTC().Format("2006-01-02")
	case string:
		return d
	default:
		return "Unknown date"
	}
}
