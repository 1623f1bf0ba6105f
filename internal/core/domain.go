package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the Income/Expense direction of a transaction.
type Kind string

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// Category is the closed set of transaction categories.
type Category string

const (
	Groceries     Category = "Groceries"
	Restaurant    Category = "Restaurant"
	Housing       Category = "Housing"
	Holidays      Category = "Holidays"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

// Categories lists every valid category.
var Categories = []Category{
	Groceries, Restaurant, Housing, Holidays, Shopping, Entertainment, Other,
}

var (
	// ErrInvalidInput is the base for all validation failures; every
	// ErrInvalid* sentinel wraps it so callers can match the whole class.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrInvalidKind     = fmt.Errorf("%w: invalid transaction type", ErrInvalidInput)
	ErrInvalidCategory = fmt.Errorf("%w: invalid category", ErrInvalidInput)
	ErrInvalidFilter   = fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrInvalidInput)
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrInvalidInput)
	ErrEmptyPassword   = fmt.Errorf("%w: empty password", ErrInvalidInput)

	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ParseKind validates a transaction type string against the closed set.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Income, Expense:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// ParseCategory validates a category string against the closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// User is an identity record. PasswordHash is a bcrypt hash, never the
// plaintext credential.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transaction is an immutable financial event belonging to one user.
// Amount is always positive; direction is carried by Kind.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Kind        Kind
	Amount      Money
	Category    Category
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Transaction) Validate() error {
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 500 {
		return fmt.Errorf("%w: description too long (max 500 characters)", ErrInvalidInput)
	}
	return nil
}

// ValidateRegistration checks user-supplied registration fields.
func ValidateRegistration(email, name, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// SignedCents applies the sign convention of the aggregation engine:
// Income contributes +cents, Expense contributes -cents.
func SignedCents(k Kind, m Money) int64 {
	if k == Expense {
		return -m.Cents
	}
	return m.Cents
}
