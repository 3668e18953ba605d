package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RegisterUser creates a supplier account. Admins are provisioned out of band.
func (s *service) RegisterUser(ctx context.Context, email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(fullName),
		Role:         identity.RoleSupplier,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountContracts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}
	return &Profile{User: u, ContractCount: count}, nil
}
