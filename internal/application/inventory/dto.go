package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
)

// StockResponse represents a variant's current stock in API responses
type StockResponse struct {
	VariantID     uuid.UUID `json:"variant_id"`
	SKU           string    `json:"sku"`
	StockQuantity int64     `json:"stock_quantity"`
}

// SyncResult is the outcome of a privileged stock adjustment
type SyncResult struct {
	VariantID     uuid.UUID `json:"variant_id"`
	Delta         int64     `json:"delta"`
	StockQuantity int64     `json:"stock_quantity"`
}

// LedgerEntryResponse represents one ledger transaction in API responses
type LedgerEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	VariantID     uuid.UUID  `json:"variant_id"`
	Kind          string     `json:"kind"`
	Delta         int64      `json:"delta"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Reference     string     `json:"reference,omitempty"`
	Note          string     `json:"note,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// ToLedgerEntryResponse converts a ledger transaction to its API shape
func ToLedgerEntryResponse(tx *inventory.InventoryTransaction) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            tx.ID,
		VariantID:     tx.VariantID,
		Kind:          tx.Kind.String(),
		Delta:         tx.Delta,
		ReservationID: tx.ReservationID,
		Reference:     tx.Reference,
		Note:          tx.Note,
		OccurredAt:    tx.OccurredAt,
	}
}

// HoldLine is one line of a reservation request
type HoldLine struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID          uuid.UUID `json:"id"`
	CheckoutRef string    `json:"checkout_ref"`
	VariantID   uuid.UUID `json:"variant_id"`
	Quantity    int64     `json:"quantity"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToReservationResponse converts a reservation to its API shape
func ToReservationResponse(r *inventory.StockReservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		CheckoutRef: r.CheckoutRef,
		VariantID:   r.VariantID,
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		ExpiresAt:   r.ExpiresAt,
	}
}
