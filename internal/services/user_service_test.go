package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"wallet/internal/core"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
		store := newFakeStore()
		svc := NewUserService(store)

		u, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if u.PasswordHash == "s3cret-pass" {
			t.Fatal("plaintext password stored")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
			t.Fatalf("stored hash does not verify: %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newFakeStore()
		store.addUser("alice@example.com")
		svc := NewUserService(store)

		_, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		if !errors.Is(err, core.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("invalid registrations", func(t *testing.T) {
		cases := []struct {
			name                   string
			email, uname, password string
		}{
			{"empty email", "", "Alice", "s3cret-pass"},
			{"malformed email", "not-an-email", "Alice", "s3cret-pass"},
			{"empty name", "alice@example.com", "", "s3cret-pass"},
			{"empty password", "alice@example.com", "Alice", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				store := newFakeStore()
				svc := NewUserService(store)
				if _, err := svc.Register(ctx, tc.email, tc.uname, tc.password); !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if len(store.users) != 0 {
					t.Fatal("store should be untouched")
				}
			})
		}
	})
}

func TestUserService_ByEmail(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	alice := store.addUser("alice@example.com")
	svc := NewUserService(store)

	got, err := svc.ByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("got %s, want %s", got.ID, alice.ID)
	}

	if _, err := svc.ByEmail(ctx, ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("empty email: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ByEmail(ctx, "ghost@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing user: expected ErrNotFound, got %v", err)
	}
}
