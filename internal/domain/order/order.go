package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the gateway's verdict on an order's payment
type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "paid"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Order is a paid, stock-settled order. Its primary key is the gateway
// checkout session id, so at most one order can ever exist per session.
// That unique constraint is what makes webhook redelivery safe.
type Order struct {
	ID             string               `gorm:"type:varchar(100);primaryKey"` // = checkout session id
	UserID         *uuid.UUID           `gorm:"type:uuid;index"`
	Email          string               `gorm:"type:varchar(255);index"`
	Lines          []LineSnapshot       `gorm:"serializer:json;type:jsonb;not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	Subtotal       int64                `gorm:"not null"`
	DiscountAmount int64                `gorm:"not null;default:0"`
	ShippingAmount int64                `gorm:"not null;default:0"`
	Total          int64                `gorm:"not null"`
	PaymentStatus  PaymentStatus        `gorm:"type:varchar(20);not null"`
	Status         OrderStatus          `gorm:"type:varchar(20);not null;default:'processing'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderFromSession materializes a paid order from a checkout session
func NewOrderFromSession(session *CheckoutSession, shippingAmount int64) *Order {
	if shippingAmount < 0 {
		shippingAmount = 0
	}

	now := time.Now()
	return &Order{
		ID:             session.ID,
		UserID:         session.UserID,
		Email:          session.Email,
		Lines:          session.Lines,
		Currency:       session.Currency,
		Subtotal:       session.Subtotal,
		DiscountAmount: session.DiscountAmount,
		ShippingAmount: shippingAmount,
		Total:          session.Subtotal - session.DiscountAmount + shippingAmount,
		PaymentStatus:  PaymentStatusPaid,
		Status:         OrderStatusProcessing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
