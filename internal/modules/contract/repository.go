package contract

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	List(ctx context.Context, q Query) ([]*Contract, error)
	SetQRCode(ctx context.Context, id uuid.UUID, url *string) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status Status) (*Contract, error)
	Update(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
}
