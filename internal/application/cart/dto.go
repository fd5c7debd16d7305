package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// IncomingLine is one client-held cart line submitted for merging
type IncomingLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	VariantID   uuid.UUID `json:"variant_id"`
	Quantity    int64     `json:"quantity"`
	PriceAtTime int64     `json:"price_at_time"`
}

// MergeResult reports how a merge went. Lines that could not be merged
// are counted, not fatal; the merge is a convenience reconciliation.
type MergeResult struct {
	Merged int `json:"merged"`
	Errors int `json:"errors"`
}

// LineResponse represents a persisted cart line in API responses
type LineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	VariantID   uuid.UUID `json:"variant_id"`
	Quantity    int64     `json:"quantity"`
	PriceAtTime int64     `json:"price_at_time"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToLineResponse converts a cart line to its API shape
func ToLineResponse(line *cart.CartLine) LineResponse {
	return LineResponse{
		ID:          line.ID,
		ProductID:   line.ProductID,
		VariantID:   line.VariantID,
		Quantity:    line.Quantity,
		PriceAtTime: line.PriceAtTime,
		UpdatedAt:   line.UpdatedAt,
	}
}
