package checkout

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutItem is one line of a checkout request. Only the variant and
// quantity are taken from the client; prices always come from the catalog.
type CheckoutItem struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest asks for a hosted payment session for a cart
type CheckoutRequest struct {
	UserID       *uuid.UUID     `json:"-"`
	Email        string         `json:"email" binding:"omitempty,email"`
	Items        []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	DiscountCode string         `json:"discount_code"`
	Hold         bool           `json:"hold"`
}

// CheckoutResponse carries the gateway redirect plus the priced totals
// the shopper will see on the hosted page
type CheckoutResponse struct {
	SessionID      string     `json:"session_id"`
	URL            string     `json:"url"`
	Currency       string     `json:"currency"`
	Subtotal       int64      `json:"subtotal"`
	DiscountAmount int64      `json:"discount_amount"`
	Total          int64      `json:"total"`
	HoldRef        string     `json:"hold_ref,omitempty"`
	HoldExpiresAt  *time.Time `json:"hold_expires_at,omitempty"`
}
