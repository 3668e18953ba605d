package user

import (
	"errors"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrWeakPassword  = errors.New("password too short (min 6)")
	ErrEmailRequired = errors.New("email is required")
)

// User represents an account that can sign in to the dashboard.
// @Description User information
// @Description with id, email, full_name, role, created_at, and updated_at
type User struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	FullName     string        `json:"full_name,omitempty"`
	Role         identity.Role `json:"role"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Profile is the signed-in user's account page.
type Profile struct {
	User          *User `json:"user"`
	ContractCount int   `json:"contract_count"`
}
