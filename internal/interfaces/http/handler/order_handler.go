package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler reads settled orders. Orders are created by the webhook
// pipeline only, so the HTTP surface is read-only.
type OrderHandler struct {
	BaseHandler
	queryService *orderapp.QueryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(queryService *orderapp.QueryService) *OrderHandler {
	return &OrderHandler{queryService: queryService}
}

// GetOrder returns one order. Shoppers only see their own orders;
// admins can fetch any order by reference.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Order id is required")
		return
	}

	owner := optionalUserID(c)
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.IsAdmin() {
		owner = nil
	}

	resp, err := h.queryService.Get(c.Request.Context(), id, owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListOrders returns the signed-in shopper's orders, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	orders, err := h.queryService.ListByUser(c.Request.Context(), userID, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}
