package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// ErrInvalidCredentials indicates a login failure. It deliberately does not
// distinguish unknown email from wrong password.
var ErrInvalidCredentials = fmt.Errorf("auth: invalid credentials: %w", httpx.ErrUnauthorized)

// Service handles registration and credential checks.
type Service struct {
	repo Repository
}

// NewService constructs the auth service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with a bcrypt password hash. An email already in
// use is a duplicate conflict.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("auth: email %s already registered: %w", email, httpx.ErrDuplicate)
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{Email: email, Name: name, PasswordHash: string(hash)})
}

// Authenticate verifies email/password and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
