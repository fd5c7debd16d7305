package inventory

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler reacts to LowStockReached events. The default
// behavior is a structured warning for the operations team; a notifier
// can be attached to fan the alert out to other channels.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// LowStockNotifier is the interface for forwarding restock alerts
type LowStockNotifier interface {
	// NotifyLowStock forwards a restock alert
	NotifyLowStock(ctx context.Context, variantID, sku string, stock, threshold int64) error
}

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for forwarding alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStockReached}
}

// Handle processes a LowStockReachedEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.LowStockReachedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStockReached, event.EventType())
	}

	h.logger.Warn("variant below restock threshold",
		zap.String("variant_id", lowStock.VariantID.String()),
		zap.String("sku", lowStock.SKU),
		zap.Int64("stock", lowStock.Stock),
		zap.Int64("threshold", lowStock.Threshold),
	)

	if h.notifier != nil {
		return h.notifier.NotifyLowStock(ctx, lowStock.VariantID.String(), lowStock.SKU, lowStock.Stock, lowStock.Threshold)
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
