package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartLine is one (product, variant) entry in a shopper's persisted
// cart. The unit price is captured at add-time; checkout re-reads the
// authoritative price and never trusts this value.
type CartLine struct {
	shared.BaseEntity
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_owner_line,priority:1"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_owner_line,priority:2"`
	VariantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_owner_line,priority:3"`
	Quantity    int64     `gorm:"not null"`
	PriceAtTime int64     `gorm:"not null"` // minor units, informational only
}

// TableName returns the table name for GORM
func (CartLine) TableName() string {
	return "cart_lines"
}

// NewCartLine creates a new cart line
func NewCartLine(ownerID, productID, variantID uuid.UUID, quantity, priceAtTime int64) (*CartLine, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cart line must have an owner")
	}
	if productID == uuid.Nil || variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINE", "Cart line must reference a product and variant")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart line quantity must be at least 1")
	}
	if priceAtTime < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Captured price cannot be negative")
	}

	return &CartLine{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerID:     ownerID,
		ProductID:   productID,
		VariantID:   variantID,
		Quantity:    quantity,
		PriceAtTime: priceAtTime,
	}, nil
}

// IncreaseQuantity adds the incoming quantity to the line and
// refreshes its timestamp. Used when merging duplicate lines.
func (l *CartLine) IncreaseQuantity(by int64) error {
	if by < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity increase must be at least 1")
	}
	l.Quantity += by
	l.Touch()
	return nil
}

// ChangeQuantity replaces the line quantity
func (l *CartLine) ChangeQuantity(quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cart line quantity must be at least 1")
	}
	l.Quantity = quantity
	l.UpdatedAt = time.Now()
	return nil
}
