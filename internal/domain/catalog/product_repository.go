package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// VariantRepository defines the interface for variant persistence.
// Stock mutations go through the guarded primitives below so the
// database enforces the non-negative stock invariant.
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)

	// FindByIDs finds multiple variants by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Variant, error)

	// FindBySKU finds a variant by its SKU
	FindBySKU(ctx context.Context, sku string) (*Variant, error)

	// FindByProduct finds all variants of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Variant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *Variant) error

	// Delete deletes a variant
	Delete(ctx context.Context, id uuid.UUID) error

	// CurrentStock reads the current stock quantity of a variant
	CurrentStock(ctx context.Context, id uuid.UUID) (int64, error)

	// AddStock atomically increases the stock quantity
	AddStock(ctx context.Context, id uuid.UUID, qty int64) error

	// RemoveStockGuarded atomically decreases the stock quantity.
	// The update only succeeds when enough stock remains; otherwise
	// shared.ErrInsufficientStock is returned and nothing changes.
	RemoveStockGuarded(ctx context.Context, id uuid.UUID, qty int64) error
}
