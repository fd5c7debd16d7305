package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes the stock ledger: privileged adjustments
// plus read-only projections for ops tooling
type InventoryHandler struct {
	BaseHandler
	ledgerService      *inventoryapp.LedgerService
	reservationService *inventoryapp.ReservationService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.LedgerService, reservationService *inventoryapp.ReservationService) *InventoryHandler {
	return &InventoryHandler{
		ledgerService:      ledgerService,
		reservationService: reservationService,
	}
}

// SyncStockRequest applies a signed delta to a variant's stock
type SyncStockRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Delta     int64     `json:"delta" binding:"required"`
}

// SyncStock applies an admin stock correction through the ledger
func (h *InventoryHandler) SyncStock(c *gin.Context) {
	var req SyncStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.ledgerService.Sync(c.Request.Context(), req.VariantID, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// StockProjection is the on-hand view plus outstanding holds
type StockProjection struct {
	VariantID     uuid.UUID `json:"variant_id"`
	SKU           string    `json:"sku"`
	StockQuantity int64     `json:"stock_quantity"`
	HeldQuantity  int64     `json:"held_quantity"`
	Available     int64     `json:"available"`
}

// GetStock returns a variant's stock level with active holds netted out
func (h *InventoryHandler) GetStock(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	variantID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid variant id")
		return
	}

	stock, err := h.ledgerService.GetStock(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	held, err := h.reservationService.HeldQuantity(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, StockProjection{
		VariantID:     stock.VariantID,
		SKU:           stock.SKU,
		StockQuantity: stock.StockQuantity,
		HeldQuantity:  held,
		Available:     stock.StockQuantity - held,
	})
}

// ListTransactions returns a variant's ledger entries, newest first
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	variantID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid variant id")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entries, err := h.ledgerService.ListByVariant(c.Request.Context(), variantID, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
