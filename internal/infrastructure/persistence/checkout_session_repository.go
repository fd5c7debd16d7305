package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCheckoutSessionRepository implements CheckoutSessionRepository using GORM
type GormCheckoutSessionRepository struct {
	db *gorm.DB
}

// NewGormCheckoutSessionRepository creates a new GormCheckoutSessionRepository
func NewGormCheckoutSessionRepository(db *gorm.DB) *GormCheckoutSessionRepository {
	return &GormCheckoutSessionRepository{db: db}
}

// Create persists a new session shadow
func (r *GormCheckoutSessionRepository) Create(ctx context.Context, session *order.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByID finds a session by its provider-issued id
func (r *GormCheckoutSessionRepository) FindByID(ctx context.Context, id string) (*order.CheckoutSession, error) {
	var session order.CheckoutSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Save persists session state changes
func (r *GormCheckoutSessionRepository) Save(ctx context.Context, session *order.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// Ensure GormCheckoutSessionRepository implements CheckoutSessionRepository
var _ order.CheckoutSessionRepository = (*GormCheckoutSessionRepository)(nil)
