package services

import (
	"context"
	"log/slog"

	"wallet/internal/core"
)

// TransactionStore is the subset of the storage layer the transaction
// service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, f core.Filter) ([]core.Transaction, error)
}

// EventPublisher emits a message after a transaction has been recorded.
// A nil publisher disables publishing.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
}

// TransactionService orchestrates recording and querying of transactions
// across SQLite and AMQP.
type TransactionService struct {
	store     TransactionStore
	users     UserStore
	publisher EventPublisher
}

func NewTransactionService(store TransactionStore, users UserStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		users:     users,
		publisher: publisher,
	}
}

// RecordInput is the raw, unparsed form of a new transaction.
type RecordInput struct {
	UserEmail   string
	Kind        string
	Amount      string
	Category    string
	Description string
}

// Record parses and validates the input, resolves the user by email and
// persists the transaction. The recorded event is published best-effort:
// a broker failure never fails the request, the row is already saved.
func (s *TransactionService) Record(ctx context.Context, in RecordInput) (core.Transaction, error) {
	kind, err := core.ParseKind(in.Kind)
	if err != nil {
		return core.Transaction{}, err
	}

	category := core.Other
	if in.Category != "" {
		if category, err = core.ParseCategory(in.Category); err != nil {
			return core.Transaction{}, err
		}
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	user, err := s.users.UserByEmail(ctx, in.UserEmail)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		UserID:      user.ID,
		Kind:        kind,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: in.Description,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionRecorded(ctx, saved); err != nil {
			slog.ErrorContext(ctx, "Failed to publish recorded transaction",
				"transaction_id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

// Select returns the transactions matching the filter, newest first.
func (s *TransactionService) Select(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}

// Aggregate folds the matching transactions into a single signed total:
// incomes add, expenses subtract. No matches yields exactly zero.
func (s *TransactionService) Aggregate(ctx context.Context, f core.Filter) (int64, error) {
	txs, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, t := range txs {
		total += core.SignedCents(t.Kind, t.Amount)
	}
	return total, nil
}
