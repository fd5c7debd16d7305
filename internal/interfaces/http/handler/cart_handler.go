package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles server-side cart endpoints
type CartHandler struct {
	BaseHandler
	mergeService *cartapp.MergeService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(mergeService *cartapp.MergeService) *CartHandler {
	return &CartHandler{mergeService: mergeService}
}

// MergeCartRequest carries the client-held lines to reconcile into the
// shopper's persisted cart
type MergeCartRequest struct {
	Items []cartapp.IncomingLine `json:"items" binding:"required"`
}

// MergeCart folds the submitted lines into the signed-in shopper's cart.
// Bad lines are counted, not fatal.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.mergeService.Merge(c.Request.Context(), userID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetCart returns the shopper's persisted cart lines
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	lines, err := h.mergeService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}

// ClearCart empties the shopper's persisted cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.mergeService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
