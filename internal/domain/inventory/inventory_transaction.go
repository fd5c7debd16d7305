package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// TransactionKind represents the kind of ledger transaction
type TransactionKind string

const (
	// TransactionKindHold reserves stock for a pending checkout
	TransactionKindHold TransactionKind = "hold"
	// TransactionKindRelease returns previously held stock to availability
	TransactionKindRelease TransactionKind = "release"
	// TransactionKindDecrement permanently removes stock for a paid order
	TransactionKindDecrement TransactionKind = "decrement"
	// TransactionKindRestock adds stock from receiving or returns
	TransactionKindRestock TransactionKind = "restock"
	// TransactionKindAdjust corrects stock after a manual count
	TransactionKindAdjust TransactionKind = "adjust"
)

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid returns true if the transaction kind is valid
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindHold,
		TransactionKindRelease,
		TransactionKindDecrement,
		TransactionKindRestock,
		TransactionKindAdjust:
		return true
	}
	return false
}

// IsDecrease returns true if this kind removes stock from availability
func (k TransactionKind) IsDecrease() bool {
	switch k {
	case TransactionKindHold, TransactionKindDecrement:
		return true
	}
	return false
}

// IsIncrease returns true if this kind returns stock to availability
func (k TransactionKind) IsIncrease() bool {
	switch k {
	case TransactionKindRelease, TransactionKindRestock:
		return true
	}
	return false
}

// InventoryTransaction is an immutable record of one stock movement.
// The ledger is append-only; corrections are made with new transactions,
// never by editing old rows. For every variant the sum of deltas
// reconciles to its current stock quantity plus outstanding holds.
type InventoryTransaction struct {
	shared.BaseEntity
	VariantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_variant_time,priority:1"`
	Kind          TransactionKind `gorm:"type:varchar(20);not null;index"`
	Delta         int64           `gorm:"not null"` // signed stock change
	ReservationID *uuid.UUID      `gorm:"type:uuid;index"`
	Reference     string          `gorm:"type:varchar(100);index"` // order or checkout session id
	Note          string          `gorm:"type:varchar(255)"`
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_ledger_variant_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new ledger transaction. The delta
// sign must agree with the kind: decreasing kinds carry a negative
// delta, increasing kinds a positive one, adjustments either.
func NewInventoryTransaction(variantID uuid.UUID, kind TransactionKind, delta int64) (*InventoryTransaction, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Invalid transaction kind")
	}
	if delta == 0 {
		return nil, shared.NewDomainError("INVALID_DELTA", "Delta cannot be zero")
	}
	if kind.IsDecrease() && delta > 0 {
		return nil, shared.NewDomainError("INVALID_DELTA", "Delta must be negative for "+kind.String())
	}
	if kind.IsIncrease() && delta < 0 {
		return nil, shared.NewDomainError("INVALID_DELTA", "Delta must be positive for "+kind.String())
	}

	return &InventoryTransaction{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		Kind:       kind,
		Delta:      delta,
		OccurredAt: time.Now(),
	}, nil
}

// WithReservationID links the transaction to a stock reservation
func (t *InventoryTransaction) WithReservationID(reservationID uuid.UUID) *InventoryTransaction {
	t.ReservationID = &reservationID
	return t
}

// WithReference links the transaction to an order or checkout session
func (t *InventoryTransaction) WithReference(reference string) *InventoryTransaction {
	t.Reference = reference
	return t
}

// WithNote attaches a free-form note to the transaction
func (t *InventoryTransaction) WithNote(note string) *InventoryTransaction {
	t.Note = note
	return t
}

// Quantity returns the absolute number of units moved
func (t *InventoryTransaction) Quantity() int64 {
	if t.Delta < 0 {
		return -t.Delta
	}
	return t.Delta
}

// NewHoldTransaction is a helper for the hold leg of a reservation
func NewHoldTransaction(variantID uuid.UUID, qty int64, reservationID uuid.UUID, ref string) (*InventoryTransaction, error) {
	tx, err := NewInventoryTransaction(variantID, TransactionKindHold, -qty)
	if err != nil {
		return nil, err
	}
	return tx.WithReservationID(reservationID).WithReference(ref), nil
}

// NewReleaseTransaction is a helper for reversing a hold
func NewReleaseTransaction(variantID uuid.UUID, qty int64, reservationID uuid.UUID, ref string) (*InventoryTransaction, error) {
	tx, err := NewInventoryTransaction(variantID, TransactionKindRelease, qty)
	if err != nil {
		return nil, err
	}
	return tx.WithReservationID(reservationID).WithReference(ref), nil
}

// NewDecrementTransaction is a helper for permanent removal at settlement
func NewDecrementTransaction(variantID uuid.UUID, qty int64, orderRef string) (*InventoryTransaction, error) {
	tx, err := NewInventoryTransaction(variantID, TransactionKindDecrement, -qty)
	if err != nil {
		return nil, err
	}
	return tx.WithReference(orderRef), nil
}
