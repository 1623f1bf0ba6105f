package core

import (
	"time"

	"github.com/google/uuid"
)

// Filter narrows a transaction query. Every field is optional; nil
// imposes no constraint. Present fields compose with logical AND.
// Amount bounds apply to the stored (non-negative) amount, time bounds
// to the creation timestamp; all bounds are inclusive.
type Filter struct {
	UserID    *uuid.UUID
	Category  *Category
	Kind      *Kind
	AmountMin *Money
	AmountMax *Money
	Start     *time.Time
	End       *time.Time
}

// IsZero reports whether no constraint is present (the full scan).
func (f Filter) IsZero() bool {
	return f.UserID == nil && f.Category == nil && f.Kind == nil &&
		f.AmountMin == nil && f.AmountMax == nil && f.Start == nil && f.End == nil
}

// Matches reports whether t satisfies every present constraint. The
// record store evaluates the same predicate in SQL; this form backs the
// summary worker and the tests.
func (f Filter) Matches(t Transaction) bool {
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	if f.AmountMin != nil && t.Amount.Cents < f.AmountMin.Cents {
		return false
	}
	if f.AmountMax != nil && t.Amount.Cents > f.AmountMax.Cents {
		return false
	}
	if f.Start != nil && t.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.CreatedAt.After(*f.End) {
		return false
	}
	return true
}
