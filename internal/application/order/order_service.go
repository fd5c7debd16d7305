package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             string               `json:"id"`
	Email          string               `json:"email"`
	Lines          []order.LineSnapshot `json:"lines"`
	Currency       string               `json:"currency"`
	Subtotal       int64                `json:"subtotal"`
	DiscountAmount int64                `json:"discount_amount"`
	ShippingAmount int64                `json:"shipping_amount"`
	Total          int64                `json:"total"`
	PaymentStatus  string               `json:"payment_status"`
	Status         string               `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ToOrderResponse converts an order to its API shape
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		Email:          o.Email,
		Lines:          o.Lines,
		Currency:       string(o.Currency),
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		ShippingAmount: o.ShippingAmount,
		Total:          o.Total,
		PaymentStatus:  string(o.PaymentStatus),
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

// QueryService reads settled orders. Orders are written exclusively by
// the webhook pipeline; this service never mutates them.
type QueryService struct {
	orderRepo order.OrderRepository
	logger    *zap.Logger
}

// NewQueryService creates an order query service
func NewQueryService(orderRepo order.OrderRepository, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{orderRepo: orderRepo, logger: logger}
}

// Get returns one order, restricted to its owner when ownerID is set
func (s *QueryService) Get(ctx context.Context, id string, ownerID *uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != nil && (o.UserID == nil || *o.UserID != *ownerID) {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListByUser returns a shopper's orders, newest first
func (s *QueryService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, nil
}
