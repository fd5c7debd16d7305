package inventory

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// ledger mutation touches. When a function is executed within a scope,
// all repository operations are part of the same database transaction
// and commit or roll back atomically. This is what makes a multi-line
// hold all-or-nothing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock-affecting
// repositories within a transaction. All repositories returned share
// the same underlying database transaction.
type TransactionalRepositories interface {
	// VariantRepo returns the variant repository scoped to the current transaction
	VariantRepo() catalog.VariantRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() inventory.StockReservationRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() inventory.InventoryTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests exercising service logic with mocks.
type NoOpTransactionScope struct {
	variantRepo     catalog.VariantRepository
	reservationRepo inventory.StockReservationRepository
	ledgerRepo      inventory.InventoryTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	variantRepo catalog.VariantRepository,
	reservationRepo inventory.StockReservationRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		variantRepo:     variantRepo,
		reservationRepo: reservationRepo,
		ledgerRepo:      ledgerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// VariantRepo returns the variant repository.
func (s *NoOpTransactionScope) VariantRepo() catalog.VariantRepository {
	return s.variantRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() inventory.StockReservationRepository {
	return s.reservationRepo
}

// LedgerRepo returns the ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.InventoryTransactionRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
