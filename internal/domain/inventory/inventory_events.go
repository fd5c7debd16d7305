package inventory

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeVariantStock     = "VariantStock"
	AggregateTypeStockReservation = "StockReservation"
)

// Event type constants
const (
	EventTypeStockHeld           = "StockHeld"
	EventTypeReservationReleased = "ReservationReleased"
	EventTypeReservationConsumed = "ReservationConsumed"
	EventTypeStockDecremented    = "StockDecremented"
	EventTypeStockRestocked      = "StockRestocked"
	EventTypeLowStockReached     = "LowStockReached"
)

// StockHeldEvent is published when a reservation claims stock
type StockHeldEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID `json:"reservation_id"`
	VariantID     uuid.UUID `json:"variant_id"`
	CheckoutRef   string    `json:"checkout_ref"`
	Quantity      int64     `json:"quantity"`
}

// NewStockHeldEvent creates a new StockHeldEvent
func NewStockHeldEvent(reservation *StockReservation) *StockHeldEvent {
	return &StockHeldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockHeld, AggregateTypeStockReservation, reservation.ID),
		ReservationID:   reservation.ID,
		VariantID:       reservation.VariantID,
		CheckoutRef:     reservation.CheckoutRef,
		Quantity:        reservation.Quantity,
	}
}

// ReservationReleasedEvent is published when a reservation is cancelled
// or expires and its stock returns to availability
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID `json:"reservation_id"`
	VariantID     uuid.UUID `json:"variant_id"`
	Quantity      int64     `json:"quantity"`
	Expired       bool      `json:"expired"`
}

// NewReservationReleasedEvent creates a new ReservationReleasedEvent
func NewReservationReleasedEvent(reservation *StockReservation, expired bool) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, AggregateTypeStockReservation, reservation.ID),
		ReservationID:   reservation.ID,
		VariantID:       reservation.VariantID,
		Quantity:        reservation.Quantity,
		Expired:         expired,
	}
}

// ReservationConsumedEvent is published when a reservation settles
// against a paid order
type ReservationConsumedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID `json:"reservation_id"`
	VariantID     uuid.UUID `json:"variant_id"`
	OrderRef      string    `json:"order_ref"`
	Quantity      int64     `json:"quantity"`
}

// NewReservationConsumedEvent creates a new ReservationConsumedEvent
func NewReservationConsumedEvent(reservation *StockReservation, orderRef string) *ReservationConsumedEvent {
	return &ReservationConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationConsumed, AggregateTypeStockReservation, reservation.ID),
		ReservationID:   reservation.ID,
		VariantID:       reservation.VariantID,
		OrderRef:        orderRef,
		Quantity:        reservation.Quantity,
	}
}

// StockDecrementedEvent is published when stock is permanently removed
type StockDecrementedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
	OrderRef  string    `json:"order_ref"`
}

// NewStockDecrementedEvent creates a new StockDecrementedEvent
func NewStockDecrementedEvent(variantID uuid.UUID, quantity int64, orderRef string) *StockDecrementedEvent {
	return &StockDecrementedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecremented, AggregateTypeVariantStock, variantID),
		VariantID:       variantID,
		Quantity:        quantity,
		OrderRef:        orderRef,
	}
}

// StockRestockedEvent is published when stock is added
type StockRestockedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
	Note      string    `json:"note,omitempty"`
}

// NewStockRestockedEvent creates a new StockRestockedEvent
func NewStockRestockedEvent(variantID uuid.UUID, quantity int64, note string) *StockRestockedEvent {
	return &StockRestockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestocked, AggregateTypeVariantStock, variantID),
		VariantID:       variantID,
		Quantity:        quantity,
		Note:            note,
	}
}

// LowStockReachedEvent is published when a stock movement leaves a
// variant below its restock threshold
type LowStockReachedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	Stock     int64     `json:"stock"`
	Threshold int64     `json:"threshold"`
}

// NewLowStockReachedEvent creates a new LowStockReachedEvent
func NewLowStockReachedEvent(variantID uuid.UUID, sku string, stock, threshold int64) *LowStockReachedEvent {
	return &LowStockReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockReached, AggregateTypeVariantStock, variantID),
		VariantID:       variantID,
		SKU:             sku,
		Stock:           stock,
		Threshold:       threshold,
	}
}
