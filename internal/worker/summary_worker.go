package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wallet/internal/amqp"
	"wallet/internal/core"
)

// SummaryStore is the subset of the storage layer the worker needs to
// maintain the monthly_summaries table.
type SummaryStore interface {
	ListUsers(ctx context.Context) ([]core.User, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID, year, month int) (incomeCents, expenseCents int64, err error)
	UpsertMonthlySummary(ctx context.Context, s core.MonthlySummary) error
}

// SummaryWorker keeps per-user monthly income/expense rollups current.
// It reacts to recorded-transaction events and also refreshes all users
// periodically as a backup in case events are lost.
type SummaryWorker struct {
	store SummaryStore
	now   func() time.Time
}

func NewSummaryWorker(store SummaryStore) *SummaryWorker {
	return &SummaryWorker{
		store: store,
		now:   time.Now,
	}
}

// HandleRecorded recomputes the summary for the month the transaction
// occurred in. Recomputing from the transactions table makes the handler
// idempotent: a redelivered message produces the same row.
func (w *SummaryWorker) HandleRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	occurred := msg.OccurredAt.UTC()
	year, month := occurred.Year(), int(occurred.Month())

	slog.InfoContext(ctx, "Processing recorded transaction",
		"transaction_id", msg.ID,
		"user_id", msg.UserID,
		"year", year,
		"month", month)

	return w.refresh(ctx, msg.UserID, year, month)
}

// RefreshAll recomputes the current month for every user.
func (w *SummaryWorker) RefreshAll(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := w.now().UTC()
	year, month := now.Year(), int(now.Month())

	var failed int
	for _, u := range users {
		if err := w.refresh(ctx, u.ID, year, month); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh summary",
				"user_id", u.ID, "year", year, "month", month, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("refresh summaries: %d of %d users failed", failed, len(users))
	}

	slog.InfoContext(ctx, "Refreshed monthly summaries",
		"users", len(users), "year", year, "month", month)
	return nil
}

func (w *SummaryWorker) refresh(ctx context.Context, userID uuid.UUID, year, month int) error {
	income, expense, err := w.store.MonthlyTotals(ctx, userID, year, month)
	if err != nil {
		return fmt.Errorf("monthly totals: %w", err)
	}

	summary := core.MonthlySummary{
		UserID:  userID,
		Year:    year,
		Month:   month,
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
		Net:     income - expense,
	}
	if err := w.store.UpsertMonthlySummary(ctx, summary); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
