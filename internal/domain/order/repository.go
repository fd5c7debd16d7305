package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CheckoutSessionRepository defines the interface for session shadow persistence
type CheckoutSessionRepository interface {
	// Create persists a new session shadow
	Create(ctx context.Context, session *CheckoutSession) error

	// FindByID finds a session by its provider-issued id
	FindByID(ctx context.Context, id string) (*CheckoutSession, error)

	// Save persists session state changes
	Save(ctx context.Context, session *CheckoutSession) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// CreateIfAbsent inserts the order unless one already exists for
	// the same session id. Returns false when the insert lost to a
	// previous (or concurrent) delivery of the same event; the row in
	// the database is untouched in that case.
	CreateIfAbsent(ctx context.Context, o *Order) (created bool, err error)

	// FindByID finds an order by its session id
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByUser returns a shopper's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
}
