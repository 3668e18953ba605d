package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser creates a supplier account with a hashed password.
	RegisterUser(ctx context.Context, email, password, fullName string) (*User, error)

	// GetUser retrieves a user by UUID.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// GetProfile returns the user together with their contract count.
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
}
