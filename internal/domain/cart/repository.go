package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartLineRepository defines the interface for cart persistence
type CartLineRepository interface {
	// FindByOwner returns all cart lines for a shopper
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]CartLine, error)

	// FindByOwnerAndVariant finds the line for a (product, variant) pair
	// in a shopper's cart, or nil if absent
	FindByOwnerAndVariant(ctx context.Context, ownerID, productID, variantID uuid.UUID) (*CartLine, error)

	// Create inserts a new cart line
	Create(ctx context.Context, line *CartLine) error

	// Save persists changes to an existing cart line
	Save(ctx context.Context, line *CartLine) error

	// Delete removes a single cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByOwner clears a shopper's cart
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}
