package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormDiscountCodeRepository implements DiscountCodeRepository using GORM
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewGormDiscountCodeRepository creates a new GormDiscountCodeRepository
func NewGormDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// FindActiveByCode finds an active code by its code string. Codes are
// stored uppercase, so lookups normalize the same way. Inactive and
// unknown codes both come back as not found.
func (r *GormDiscountCodeRepository) FindActiveByCode(ctx context.Context, code string) (*promotion.DiscountCode, error) {
	var discount promotion.DiscountCode
	if err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", strings.ToUpper(strings.TrimSpace(code)), true).
		First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

// FindByID finds a code by its ID
func (r *GormDiscountCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.DiscountCode, error) {
	var discount promotion.DiscountCode
	if err := r.db.WithContext(ctx).First(&discount, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

// Save creates or updates a code
func (r *GormDiscountCodeRepository) Save(ctx context.Context, code *promotion.DiscountCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

// Ensure GormDiscountCodeRepository implements DiscountCodeRepository
var _ promotion.DiscountCodeRepository = (*GormDiscountCodeRepository)(nil)
