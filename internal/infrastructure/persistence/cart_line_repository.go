package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCartLineRepository implements CartLineRepository using GORM
type GormCartLineRepository struct {
	db *gorm.DB
}

// NewGormCartLineRepository creates a new GormCartLineRepository
func NewGormCartLineRepository(db *gorm.DB) *GormCartLineRepository {
	return &GormCartLineRepository{db: db}
}

// FindByOwner returns all cart lines for a shopper, oldest first so
// the cart keeps its insertion order across sessions
func (r *GormCartLineRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]cart.CartLine, error) {
	var lines []cart.CartLine
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByOwnerAndVariant finds the line for a (product, variant) pair in
// a shopper's cart
func (r *GormCartLineRepository) FindByOwnerAndVariant(ctx context.Context, ownerID, productID, variantID uuid.UUID) (*cart.CartLine, error) {
	var line cart.CartLine
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND product_id = ? AND variant_id = ?", ownerID, productID, variantID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// Create inserts a new cart line
func (r *GormCartLineRepository) Create(ctx context.Context, line *cart.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Save persists changes to an existing cart line
func (r *GormCartLineRepository) Save(ctx context.Context, line *cart.CartLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Delete removes a single cart line
func (r *GormCartLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&cart.CartLine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByOwner clears a shopper's cart. Clearing an already empty
// cart is not an error.
func (r *GormCartLineRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&cart.CartLine{}, "owner_id = ?", ownerID).Error
}

// Ensure GormCartLineRepository implements CartLineRepository
var _ cart.CartLineRepository = (*GormCartLineRepository)(nil)
