package handler

import (
	"github.com/gin-gonic/gin"

	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// DiscountHandler validates discount codes against a cart subtotal.
// Evaluation is public; the authoritative application happens again
// inside checkout, so there is nothing to protect here.
type DiscountHandler struct {
	BaseHandler
	discountService *promotionapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService *promotionapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// ApplyDiscountRequest asks whether a code is usable for a subtotal
type ApplyDiscountRequest struct {
	Code         string `json:"code" binding:"required"`
	CartSubtotal int64  `json:"cart_subtotal" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
}

// ApplyDiscount evaluates a code and returns the priced outcome
func (h *DiscountHandler) ApplyDiscount(c *gin.Context) {
	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	applied, err := h.discountService.Apply(c.Request.Context(), req.Code, req.CartSubtotal, valueobject.Currency(req.Currency))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, applied)
}
