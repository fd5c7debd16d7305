package promotion

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// AppliedDiscount is the preview a client sees after asking what a
// code would do to the current cart subtotal. Nothing is persisted;
// checkout recomputes the same figures from scratch.
type AppliedDiscount struct {
	Code        string                 `json:"code"`
	Type        promotion.DiscountType `json:"type"`
	Value       decimal.Decimal        `json:"value"`
	AmountOff   int64                  `json:"amount_off"`
	NewSubtotal int64                  `json:"new_subtotal"`
}
