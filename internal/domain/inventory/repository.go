package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// InventoryTransactionRepository defines the interface for the
// append-only ledger. Transactions are never updated or deleted.
type InventoryTransactionRepository interface {
	// Create appends a single transaction to the ledger
	Create(ctx context.Context, tx *InventoryTransaction) error

	// CreateBatch appends multiple transactions to the ledger
	CreateBatch(ctx context.Context, txs []*InventoryTransaction) error

	// FindByVariant returns the ledger entries for a variant, newest first
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// FindByReservation returns the ledger entries linked to a reservation
	FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]InventoryTransaction, error)

	// FindByReference returns the ledger entries linked to an order or session
	FindByReference(ctx context.Context, reference string) ([]InventoryTransaction, error)

	// SumDeltas returns the net ledger delta for a variant, used to
	// reconcile the ledger against the stock counter
	SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error)
}

// StockReservationRepository defines the interface for reservation persistence
type StockReservationRepository interface {
	// Create persists a new reservation
	Create(ctx context.Context, reservation *StockReservation) error

	// FindByID finds a reservation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockReservation, error)

	// FindActiveByCheckoutRef finds the held reservations for a checkout
	FindActiveByCheckoutRef(ctx context.Context, checkoutRef string) ([]StockReservation, error)

	// FindExpired finds held reservations whose TTL elapsed before the
	// given cutoff, up to limit rows
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]StockReservation, error)

	// SumActiveByVariant totals the units currently held for a variant
	SumActiveByVariant(ctx context.Context, variantID uuid.UUID) (int64, error)

	// Settle flips a reservation from one status to another in a
	// single guarded update and reports whether this caller won the
	// transition. False means a concurrent caller settled it first
	// and no stock may move on this path.
	Settle(ctx context.Context, id uuid.UUID, from, to ReservationStatus) (bool, error)
}
