package auth

import (
	"context"
	"errors"

	"github.com/georgemunganga/supplier-pro/internal/identity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks the credentials and issues a signed session token.
	Login(ctx context.Context, email, password string) (*Token, error)

	// ParseToken verifies a token and returns the session it carries.
	ParseToken(token string) (identity.Session, error)
}

// Token is returned to the dashboard after a successful sign-in.
type Token struct {
	AccessToken string        `json:"token"`
	ExpiresAt   int64         `json:"expires_at"`
	Role        identity.Role `json:"role"`
	UserID      string        `json:"user_id"`
}
