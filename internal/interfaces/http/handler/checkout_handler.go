package handler

import (
	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler creates hosted payment sessions
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession prices the submitted cart, optionally places stock
// holds, and returns the gateway redirect URL
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	// Guests check out with just an email; signed-in shoppers get the
	// order attached to their account
	req.UserID = optionalUserID(c)
	if req.Email == "" {
		if claims := middleware.GetJWTClaims(c); claims != nil {
			req.Email = claims.Email
		}
	}

	resp, err := h.checkoutService.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}
