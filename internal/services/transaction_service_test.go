package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
)

type fakeStore struct {
	users        map[string]core.User
	transactions []core.Transaction
	createErr    error
	listErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]core.User)}
}

func (f *fakeStore) addUser(email string) core.User {
	u := core.User{ID: uuid.New(), Email: email, Name: "Test", PasswordHash: "hash"}
	f.users[email] = u
	return u
}

func (f *fakeStore) CreateUser(ctx context.Context, email, name, passwordHash string) (core.User, error) {
	if _, ok := f.users[email]; ok {
		return core.User{}, core.ErrDuplicateEmail
	}
	u := core.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: passwordHash}
	f.users[email] = u
	return u, nil
}

func (f *fakeStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	u, ok := f.users[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]core.User, error) {
	out := make([]core.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	f.transactions = append(f.transactions, t)
	return t, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, filter core.Filter) ([]core.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []core.Transaction
	for _, t := range f.transactions {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []core.Transaction
	err       error
}

func (f *fakePublisher) PublishTransactionRecorded(ctx context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, t)
	return nil
}

func TestTransactionService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("valid expense is saved and published", func(t *testing.T) {
		store := newFakeStore()
		alice := store.addUser("alice@example.com")
		pub := &fakePublisher{}
		svc := NewTransactionService(store, store, pub)

		tx, err := svc.Record(ctx, RecordInput{
			UserEmail:   "alice@example.com",
			Kind:        "Expense",
			Amount:      "42.75",
			Category:    "Groceries",
			Description: "weekly shop",
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if tx.UserID != alice.ID {
			t.Errorf("user id = %s, want %s", tx.UserID, alice.ID)
		}
		if tx.Amount.Cents != 4275 {
			t.Errorf("amount = %d cents, want 4275", tx.Amount.Cents)
		}
		if tx.Kind != core.Expense || tx.Category != core.Groceries {
			t.Errorf("kind/category = %s/%s", tx.Kind, tx.Category)
		}
		if len(pub.published) != 1 || pub.published[0].ID != tx.ID {
			t.Errorf("expected one published event for %s", tx.ID)
		}
	})

	t.Run("category defaults to Other", func(t *testing.T) {
		store := newFakeStore()
		store.addUser("alice@example.com")
		svc := NewTransactionService(store, store, nil)

		tx, err := svc.Record(ctx, RecordInput{
			UserEmail: "alice@example.com",
			Kind:      "Income",
			Amount:    "2500.00",
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if tx.Category != core.Other {
			t.Errorf("category = %s, want Other", tx.Category)
		}
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		cases := []struct {
			name string
			in   RecordInput
		}{
			{"bad kind", RecordInput{UserEmail: "alice@example.com", Kind: "Transfer", Amount: "10.00"}},
			{"bad category", RecordInput{UserEmail: "alice@example.com", Kind: "Expense", Amount: "10.00", Category: "Rent"}},
			{"zero amount", RecordInput{UserEmail: "alice@example.com", Kind: "Expense", Amount: "0"}},
			{"negative amount", RecordInput{UserEmail: "alice@example.com", Kind: "Expense", Amount: "-5.00"}},
			{"garbage amount", RecordInput{UserEmail: "alice@example.com", Kind: "Expense", Amount: "ten"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				store := newFakeStore()
				store.addUser("alice@example.com")
				svc := NewTransactionService(store, store, nil)

				if _, err := svc.Record(ctx, tc.in); !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if len(store.transactions) != 0 {
					t.Fatalf("store should be untouched")
				}
			})
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTransactionService(store, store, nil)

		_, err := svc.Record(ctx, RecordInput{
			UserEmail: "ghost@example.com",
			Kind:      "Income",
			Amount:    "10.00",
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		store := newFakeStore()
		store.addUser("alice@example.com")
		pub := &fakePublisher{err: errors.New("broker down")}
		svc := NewTransactionService(store, store, pub)

		tx, err := svc.Record(ctx, RecordInput{
			UserEmail: "alice@example.com",
			Kind:      "Income",
			Amount:    "10.00",
		})
		if err != nil {
			t.Fatalf("record should succeed despite publish failure: %v", err)
		}
		if len(store.transactions) != 1 || store.transactions[0].ID != tx.ID {
			t.Fatalf("transaction should be stored")
		}
	})
}

func TestTransactionService_Aggregate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	alice := store.addUser("alice@example.com")
	bob := store.addUser("bob@example.com")
	svc := NewTransactionService(store, store, nil)

	record := func(email, kind, amount, category string) {
		t.Helper()
		if _, err := svc.Record(ctx, RecordInput{UserEmail: email, Kind: kind, Amount: amount, Category: category}); err != nil {
			t.Fatalf("record %s %s: %v", kind, amount, err)
		}
	}
	record("alice@example.com", "Income", "2500.00", "")
	record("alice@example.com", "Expense", "42.75", "Groceries")
	record("bob@example.com", "Expense", "99.99", "Shopping")

	t.Run("incomes add, expenses subtract", func(t *testing.T) {
		total, err := svc.Aggregate(ctx, core.Filter{UserID: &alice.ID})
		if err != nil {
			t.Fatalf("aggregate: %v", err)
		}
		if got := core.FormatCents(total); got != "2457.25" {
			t.Errorf("total = %s, want 2457.25", got)
		}
	})

	t.Run("kind filter narrows the fold", func(t *testing.T) {
		kind := core.Expense
		total, err := svc.Aggregate(ctx, core.Filter{UserID: &alice.ID, Kind: &kind})
		if err != nil {
			t.Fatalf("aggregate: %v", err)
		}
		if got := core.FormatCents(total); got != "-42.75" {
			t.Errorf("total = %s, want -42.75", got)
		}
	})

	t.Run("no matches is exactly zero", func(t *testing.T) {
		total, err := svc.Aggregate(ctx, core.Filter{UserID: &bob.ID, Kind: ptrKind(core.Income)})
		if err != nil {
			t.Fatalf("aggregate: %v", err)
		}
		if total != 0 {
			t.Errorf("total = %d, want 0", total)
		}
	})
}

func ptrKind(k core.Kind) *core.Kind { return &k }
