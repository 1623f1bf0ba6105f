// Package storage implements the durable record store over SQLite.
//
// Uniqueness (user email) and referential integrity (transaction to
// owning user, with cascade delete) are enforced by the schema, not by
// application-level checks.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wallet/internal/core"
)

type Repository struct {
	db *sql.DB

	// now is swapped out by tests that need deterministic timestamps.
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at dbPath and
// runs pending migrations.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

// dsn enables foreign keys on every pooled connection; cascade delete
// depends on it.
func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether storage is reachable. Used by the /health/db probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser inserts a new user, generating its identifier and
// timestamps. A taken email yields core.ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (core.User, error) {
	now := r.now().UTC()
	u := core.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.Name, u.PasswordHash, now.UnixNano(), now.UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return core.User{}, fmt.Errorf("create user %q: %w", email, core.ErrDuplicateEmail)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID, "user_email", u.Email)
	return u, nil
}

// UserByEmail looks a user up by exact (case-sensitive) email.
func (r *Repository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE email = ? LIMIT 1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return core.User{}, fmt.Errorf("user %q: %w", email, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *Repository) UserByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE id = ? LIMIT 1`, id.String())
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return core.User{}, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, oldest first.
func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user; the schema cascades the delete to all of
// the user's transactions and summaries.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}

// CreateTransaction inserts a financial event, generating its
// identifier and timestamps. A missing owning user yields
// core.ErrNotFound.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := r.now().UTC()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, kind, amount_cents, category, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), string(t.Kind), t.Amount.Cents,
		string(t.Category), t.Description, now.UnixNano(), now.UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return core.Transaction{}, fmt.Errorf("user %s: %w", t.UserID, core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"transaction_type", t.Kind,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)
	return t, nil
}

// ListTransactions returns the transactions matching every present
// filter field, newest first. An empty filter is the full scan. One
// WHERE clause is appended per present field; absent fields add nothing.
func (r *Repository) ListTransactions(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, kind, amount_cents, category, description, created_at, updated_at FROM transactions`)

	var conds []string
	var args []any
	if f.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID.String())
	}
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.Kind != nil {
		conds = append(conds, "kind = ?")
		args = append(args, string(*f.Kind))
	}
	if f.AmountMin != nil {
		conds = append(conds, "amount_cents >= ?")
		args = append(args, f.AmountMin.Cents)
	}
	if f.AmountMax != nil {
		conds = append(conds, "amount_cents <= ?")
		args = append(args, f.AmountMax.Cents)
	}
	if f.Start != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.Start.UnixNano())
	}
	if f.End != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.End.UnixNano())
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	// Newest first; id as tiebreak so same-timestamp rows order stably.
	b.WriteString(" ORDER BY created_at DESC, id")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// MonthlyTotals computes the income and expense cent totals for one
// user's calendar month (UTC).
func (r *Repository) MonthlyTotals(ctx context.Context, userID uuid.UUID, year, month int) (incomeCents, expenseCents int64, err error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	row := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN kind = 'Income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'Expense' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE user_id = ? AND created_at >= ? AND created_at < ?`,
		userID.String(), start.UnixNano(), end.UnixNano())
	if err := row.Scan(&incomeCents, &expenseCents); err != nil {
		return 0, 0, fmt.Errorf("monthly totals: %w", err)
	}
	return incomeCents, expenseCents, nil
}

// UpsertMonthlySummary writes or replaces one materialized month row.
func (r *Repository) UpsertMonthlySummary(ctx context.Context, s core.MonthlySummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries (user_id, year, month, income_cents, expense_cents, net_cents, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, year, month) DO UPDATE SET
			income_cents = excluded.income_cents,
			expense_cents = excluded.expense_cents,
			net_cents = excluded.net_cents,
			updated_at = excluded.updated_at`,
		s.UserID.String(), s.Year, s.Month,
		s.Income.Cents, s.Expense.Cents, s.Net, r.now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert monthly summary: %w", err)
	}
	return nil
}

// MonthlySummary reads one materialized month row.
func (r *Repository) MonthlySummary(ctx context.Context, userID uuid.UUID, year, month int) (core.MonthlySummary, error) {
	s := core.MonthlySummary{UserID: userID, Year: year, Month: month}
	row := r.db.QueryRowContext(ctx,
		`SELECT income_cents, expense_cents, net_cents
		 FROM monthly_summaries WHERE user_id = ? AND year = ? AND month = ?`,
		userID.String(), year, month)
	if err := row.Scan(&s.Income.Cents, &s.Expense.Cents, &s.Net); err != nil {
		if err == sql.ErrNoRows {
			return core.MonthlySummary{}, fmt.Errorf("summary %s %d-%02d: %w", userID, year, month, core.ErrNotFound)
		}
		return core.MonthlySummary{}, fmt.Errorf("get monthly summary: %w", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (core.User, error) {
	var (
		u                    core.User
		id                   string
		createdNs, updatedNs int64
	)
	if err := row.Scan(&id, &u.Email, &u.Name, &u.PasswordHash, &createdNs, &updatedNs); err != nil {
		return core.User{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.User{}, fmt.Errorf("parse user id %q: %w", id, err)
	}
	u.ID = parsed
	u.CreatedAt = time.Unix(0, createdNs).UTC()
	u.UpdatedAt = time.Unix(0, updatedNs).UTC()
	return u, nil
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t                    core.Transaction
		id, userID           string
		kind, category       string
		createdNs, updatedNs int64
	)
	if err := row.Scan(&id, &userID, &kind, &t.Amount.Cents, &category, &t.Description, &createdNs, &updatedNs); err != nil {
		return core.Transaction{}, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction id %q: %w", id, err)
	}
	parsedUser, err := uuid.Parse(userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse user id %q: %w", userID, err)
	}
	t.ID = parsedID
	t.UserID = parsedUser
	t.Kind = core.Kind(kind)
	t.Category = core.Category(category)
	t.CreatedAt = time.Unix(0, createdNs).UTC()
	t.UpdatedAt = time.Unix(0, updatedNs).UTC()
	return t, nil
}
