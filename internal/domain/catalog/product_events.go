package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct = "Product"
	AggregateTypeVariant = "Variant"
)

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeVariantCreated      = "VariantCreated"
	EventTypeVariantPriceChanged = "VariantPriceChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Slug:            product.Slug,
		Name:            product.Name,
	}
}

// VariantCreatedEvent is published when a new variant is created
type VariantCreatedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Price     int64     `json:"price"`
}

// NewVariantCreatedEvent creates a new VariantCreatedEvent
func NewVariantCreatedEvent(variant *Variant) *VariantCreatedEvent {
	return &VariantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantCreated, AggregateTypeVariant, variant.ID),
		VariantID:       variant.ID,
		ProductID:       variant.ProductID,
		SKU:             variant.SKU,
		Price:           variant.Price,
	}
}

// VariantPriceChangedEvent is published when a variant's price changes
type VariantPriceChangedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	OldPrice  int64     `json:"old_price"`
	NewPrice  int64     `json:"new_price"`
}

// NewVariantPriceChangedEvent creates a new VariantPriceChangedEvent
func NewVariantPriceChangedEvent(variant *Variant, oldPrice, newPrice int64) *VariantPriceChangedEvent {
	return &VariantPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantPriceChanged, AggregateTypeVariant, variant.ID),
		VariantID:       variant.ID,
		SKU:             variant.SKU,
		OldPrice:        oldPrice,
		NewPrice:        newPrice,
	}
}
