package issue

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for contract issues.
type Repository interface {
	Create(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Issue, error)
	List(ctx context.Context, q Query) ([]*Row, error)
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (*Issue, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ContractOwner returns the supplier of a contract, or ErrContractNotFound.
	ContractOwner(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error)
}
