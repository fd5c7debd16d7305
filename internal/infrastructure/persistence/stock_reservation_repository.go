package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormStockReservationRepository implements StockReservationRepository
// using GORM. A partial unique index on (variant_id, checkout_ref)
// where status is held backs the at-most-one-active-hold invariant.
type GormStockReservationRepository struct {
	db *gorm.DB
}

// NewGormStockReservationRepository creates a new GormStockReservationRepository
func NewGormStockReservationRepository(db *gorm.DB) *GormStockReservationRepository {
	return &GormStockReservationRepository{db: db}
}

// Create persists a new reservation
func (r *GormStockReservationRepository) Create(ctx context.Context, reservation *inventory.StockReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// FindByID finds a reservation by its ID
func (r *GormStockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReservation, error) {
	var reservation inventory.StockReservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindActiveByCheckoutRef finds the held reservations for a checkout
func (r *GormStockReservationRepository) FindActiveByCheckoutRef(ctx context.Context, checkoutRef string) ([]inventory.StockReservation, error) {
	var reservations []inventory.StockReservation
	if err := r.db.WithContext(ctx).
		Where("checkout_ref = ? AND status = ?", checkoutRef, inventory.ReservationStatusHeld).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired finds held reservations whose TTL elapsed before the
// cutoff, oldest first, up to limit rows
func (r *GormStockReservationRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]inventory.StockReservation, error) {
	var reservations []inventory.StockReservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", inventory.ReservationStatusHeld, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// SumActiveByVariant totals the units currently held for a variant
func (r *GormStockReservationRepository) SumActiveByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&inventory.StockReservation{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("variant_id = ? AND status = ?", variantID, inventory.ReservationStatusHeld).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Settle flips a reservation between statuses with the current status
// as the guard. RowsAffected reports whether this caller won; a racing
// release and consume on the same hold can never both succeed.
func (r *GormStockReservationRepository) Settle(ctx context.Context, id uuid.UUID, from, to inventory.ReservationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockReservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormStockReservationRepository implements StockReservationRepository
var _ inventory.StockReservationRepository = (*GormStockReservationRepository)(nil)
