package contract

import (
	"context"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/modules/storage"
	"github.com/google/uuid"
)

// Service defines contract business logic. Every call is scoped by the
// caller's session: suppliers act on their own contracts, admins on any.
type Service interface {
	// Create validates the form and optional QR image, inserts the contract and
	// then stores the image. A failed upload is reported on the returned
	// contract, not as an error.
	Create(ctx context.Context, session identity.Session, in Input, qrCode *storage.File) (*Contract, error)

	// Get returns a contract the session owns, or any contract for admins.
	Get(ctx context.Context, session identity.Session, id uuid.UUID) (*Contract, error)

	// List returns contracts newest first, filtered by title search and status.
	List(ctx context.Context, session identity.Session, filter Filter) ([]*Contract, error)

	// UpdateProgress writes status and progress together and returns the stored row.
	UpdateProgress(ctx context.Context, session identity.Session, id uuid.UUID, progress int, status Status) (*Contract, error)

	// Update replaces the form fields. An empty status keeps the current one.
	Update(ctx context.Context, session identity.Session, id uuid.UUID, in Input) (*Contract, error)

	// Delete removes the contract and, best effort, its QR image.
	Delete(ctx context.Context, session identity.Session, id uuid.UUID) error

	// QRCodeSignedURL returns a download link for the QR image valid for ttl.
	QRCodeSignedURL(ctx context.Context, session identity.Session, id uuid.UUID, ttl time.Duration) (string, error)
}
