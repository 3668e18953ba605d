// Package identity carries the signed-in user's session through a request.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Role is the closed set of capabilities a signed-in user can hold.
type Role string

const (
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSupplier || r == RoleAdmin
}

// In reports whether r is a member of roles.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// Session is the authenticated caller of a request.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// CanWrite reports whether the session may mutate a row owned by ownerID.
func (s Session) CanWrite(ownerID uuid.UUID) bool {
	return s.IsAdmin() || s.UserID == ownerID
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by Authenticate.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
