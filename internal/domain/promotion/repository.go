package promotion

import (
	"context"

	"github.com/google/uuid"
)

// DiscountCodeRepository defines the interface for discount code persistence
type DiscountCodeRepository interface {
	// FindActiveByCode finds an active code by its (case-insensitive)
	// code string. Inactive and unknown codes both return not found.
	FindActiveByCode(ctx context.Context, code string) (*DiscountCode, error)

	// FindByID finds a code by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountCode, error)

	// Save creates or updates a code
	Save(ctx context.Context, code *DiscountCode) error
}
