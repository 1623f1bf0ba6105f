package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wallet/internal/core"
)

// UserStore is the subset of the storage layer the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (core.User, error)
	UserByEmail(ctx context.Context, email string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService handles registration and lookup of account holders.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Register validates the input, hashes the password and persists the user.
// Plaintext passwords never reach the storage layer.
func (s *UserService) Register(ctx context.Context, email, name, password string) (core.User, error) {
	if err := core.ValidateRegistration(email, name, password); err != nil {
		return core.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.store.CreateUser(ctx, email, name, string(hash))
}

func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) ByEmail(ctx context.Context, email string) (core.User, error) {
	if email == "" {
		return core.User{}, core.ErrInvalidEmail
	}
	return s.store.UserByEmail(ctx, email)
}

func (s *UserService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteUser(ctx, id)
}
