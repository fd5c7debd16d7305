package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormVariantRepository implements VariantRepository using GORM.
// Stock mutations are single guarded UPDATE statements; the repository
// never reads a quantity, changes it in Go and writes it back.
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDs finds multiple variants by their IDs
func (r *GormVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return []catalog.Variant{}, nil
	}

	var variants []catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindBySKU finds a variant by its SKU
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		First(&variant, "sku = ?", strings.ToUpper(sku)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProduct finds all variants of a product
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sku ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// Delete deletes a variant
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Variant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CurrentStock reads the current stock quantity of a variant
func (r *GormVariantRepository) CurrentStock(ctx context.Context, id uuid.UUID) (int64, error) {
	var stock int64
	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Select("stock_quantity").
		Where("id = ?", id).
		Scan(&stock)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrNotFound
	}
	return stock, nil
}

// AddStock atomically increases the stock quantity
func (r *GormVariantRepository) AddStock(ctx context.Context, id uuid.UUID, qty int64) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock increment must be at least 1")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveStockGuarded atomically decreases the stock quantity. The WHERE
// clause carries the stock check, so two concurrent checkouts racing
// for the last unit can never both succeed.
func (r *GormVariantRepository) RemoveStockGuarded(ctx context.Context, id uuid.UUID, qty int64) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock decrement must be at least 1")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
