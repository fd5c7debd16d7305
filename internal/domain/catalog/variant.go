package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Variant represents a purchasable unit of a product (a size, a color).
// Stock is tracked per variant. The StockQuantity column is only ever
// mutated through guarded updates in the repository, never through a
// read-modify-write cycle.
type Variant struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	SKU               string               `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name              string               `gorm:"type:varchar(200);not null"`
	Price             int64                `gorm:"not null"` // minor units
	Currency          valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	StockQuantity     int64                `gorm:"not null;default:0"`
	LowStockThreshold int64                `gorm:"not null;default:0"`
	Active            bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewVariant creates a new variant for a product
func NewVariant(productID uuid.UUID, sku, name string, price int64, currency valueobject.Currency) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variant must belong to a product")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	variant := &Variant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price,
		Currency:          currency,
		Active:            true,
	}

	variant.AddDomainEvent(NewVariantCreatedEvent(variant))

	return variant, nil
}

// UnitPrice returns the variant price as a Money value
func (v *Variant) UnitPrice() valueobject.Money {
	m, _ := valueobject.NewMoney(v.Price, v.Currency)
	return m
}

// ChangePrice updates the variant's unit price
func (v *Variant) ChangePrice(price int64) error {
	if price < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}

	old := v.Price
	v.Price = price
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVariantPriceChangedEvent(v, old, price))

	return nil
}

// SetLowStockThreshold sets the level below which restock alerts fire
func (v *Variant) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	v.LowStockThreshold = threshold
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// Deactivate removes the variant from sale
func (v *Variant) Deactivate() {
	v.Active = false
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// IsBelowThreshold reports whether the given stock level has fallen
// below the restock alert threshold
func (v *Variant) IsBelowThreshold(stock int64) bool {
	return v.LowStockThreshold > 0 && stock < v.LowStockThreshold
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	return nil
}
