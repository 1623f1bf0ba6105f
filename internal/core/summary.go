package core

import "github.com/google/uuid"

// MonthlySummary is the materialized per-user month aggregate kept by
// the summary worker.
type MonthlySummary struct {
	UserID  uuid.UUID
	Year    int
	Month   int // 1-12
	Income  Money
	Expense Money
	Net     int64 // signed cents: Income.Cents - Expense.Cents
}
