package utils

import (
	"time"

	"github.com/arthamitra/finassist-be/types"
)

// CurrentMonthPeriod is the default aggregation window: first of the
// current month through now.
func CurrentMonthPeriod() types.Period {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return types.Period{Start: start, End: now}
}
