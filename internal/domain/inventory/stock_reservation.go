package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// ReservationStatusHeld means the stock is claimed but the checkout is not settled
	ReservationStatusHeld ReservationStatus = "held"
	// ReservationStatusConsumed means the checkout settled and the claim is final
	ReservationStatusConsumed ReservationStatus = "consumed"
	// ReservationStatusReleased means the claim was cancelled or expired
	ReservationStatusReleased ReservationStatus = "released"
)

// StockReservation is a short-lived claim on stock for one checkout line.
// The stock itself is removed by the paired hold transaction; consuming a
// reservation never touches stock again, releasing it adds the stock back.
// At most one held reservation exists per (variant, checkout reference).
type StockReservation struct {
	shared.BaseEntity
	CheckoutRef string            `gorm:"type:varchar(100);not null;index:idx_reservation_ref"`
	VariantID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservation_ref"`
	Quantity    int64             `gorm:"not null"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;default:'held';index"`
	ExpiresAt   time.Time         `gorm:"not null;index"`
	SettledAt   *time.Time        `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (StockReservation) TableName() string {
	return "stock_reservations"
}

// NewStockReservation creates a held reservation expiring after ttl
func NewStockReservation(checkoutRef string, variantID uuid.UUID, quantity int64, ttl time.Duration) (*StockReservation, error) {
	if checkoutRef == "" {
		return nil, shared.NewDomainError("INVALID_CHECKOUT_REF", "Checkout reference cannot be empty")
	}
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be at least 1")
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Reservation TTL must be positive")
	}

	return &StockReservation{
		BaseEntity:  shared.NewBaseEntity(),
		CheckoutRef: checkoutRef,
		VariantID:   variantID,
		Quantity:    quantity,
		Status:      ReservationStatusHeld,
		ExpiresAt:   time.Now().Add(ttl),
	}, nil
}

// IsActive returns true if the reservation still claims stock
func (r *StockReservation) IsActive() bool {
	return r.Status == ReservationStatusHeld
}

// IsExpired returns true if the reservation is past its TTL
func (r *StockReservation) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Release marks the reservation released. The caller is responsible for
// recording the paired release transaction that returns the stock.
func (r *StockReservation) Release() error {
	if r.Status != ReservationStatusHeld {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = ReservationStatusReleased
	r.SettledAt = &now
	r.UpdatedAt = now
	return nil
}

// Consume marks the reservation consumed at order settlement. Stock is
// not touched; it was already removed when the hold was taken.
func (r *StockReservation) Consume() error {
	if r.Status != ReservationStatusHeld {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = ReservationStatusConsumed
	r.SettledAt = &now
	r.UpdatedAt = now
	return nil
}

// TimeUntilExpiry returns the duration until the reservation expires,
// negative if already expired
func (r *StockReservation) TimeUntilExpiry() time.Duration {
	return time.Until(r.ExpiresAt)
}
