package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// SessionStatus represents the local view of a gateway checkout session
type SessionStatus string

const (
	SessionStatusOpen      SessionStatus = "open"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// LineSnapshot is one priced line captured when a checkout session is
// built. Prices come from the catalog at build time, never from the client.
type LineSnapshot struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"` // minor units
}

// Total returns the line total in minor units
func (l LineSnapshot) Total() int64 {
	return l.UnitPrice * l.Quantity
}

// CheckoutSession is the local shadow of a session owned by the payment
// gateway. The gateway issues the id and owns the session lifetime; the
// shadow exists so the webhook can settle stock and attribute the order.
type CheckoutSession struct {
	ID             string               `gorm:"type:varchar(100);primaryKey"` // provider-issued
	UserID         *uuid.UUID           `gorm:"type:uuid;index"`
	Email          string               `gorm:"type:varchar(255)"`
	Lines          []LineSnapshot       `gorm:"serializer:json;type:jsonb;not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	Subtotal       int64                `gorm:"not null"`
	DiscountCode   string               `gorm:"type:varchar(50)"`
	DiscountAmount int64                `gorm:"not null;default:0"`
	HoldRef        string               `gorm:"type:varchar(100);index"`
	Status         SessionStatus        `gorm:"type:varchar(20);not null;default:'open';index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// NewCheckoutSession creates the local shadow of a gateway session
func NewCheckoutSession(id string, userID *uuid.UUID, email string, lines []LineSnapshot, currency valueobject.Currency) (*CheckoutSession, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Checkout session must have at least one line")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	var subtotal int64
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be at least 1")
		}
		subtotal += line.Total()
	}

	now := time.Now()
	return &CheckoutSession{
		ID:        id,
		UserID:    userID,
		Email:     email,
		Lines:     lines,
		Currency:  currency,
		Subtotal:  subtotal,
		Status:    SessionStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyDiscount records the discount applied when the session was built
func (s *CheckoutSession) ApplyDiscount(code string, amount int64) error {
	if amount < 0 || amount > s.Subtotal {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative or exceed the subtotal")
	}
	s.DiscountCode = code
	s.DiscountAmount = amount
	s.UpdatedAt = time.Now()
	return nil
}

// AttachHold links the session to the reservations placed for it.
// One checkout produces one hold ref covering a reservation per line.
func (s *CheckoutSession) AttachHold(ref string) {
	s.HoldRef = ref
	s.UpdatedAt = time.Now()
}

// Complete marks the session settled into an order
func (s *CheckoutSession) Complete() error {
	if s.Status != SessionStatusOpen {
		return shared.ErrInvalidState
	}
	s.Status = SessionStatusCompleted
	s.UpdatedAt = time.Now()
	return nil
}

// Abandon marks the session abandoned after a failed payment
func (s *CheckoutSession) Abandon() error {
	if s.Status != SessionStatusOpen {
		return shared.ErrInvalidState
	}
	s.Status = SessionStatusAbandoned
	s.UpdatedAt = time.Now()
	return nil
}
