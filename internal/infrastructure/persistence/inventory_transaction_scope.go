package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. Every hold, release and settlement runs through it so
// a guarded stock update and its ledger row commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes the stock-affecting repositories
// bound to one open transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// VariantRepo returns the variant repository scoped to the current transaction
func (r *gormTransactionalRepositories) VariantRepo() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReservationRepo() inventory.StockReservationRepository {
	return NewGormStockReservationRepository(r.tx)
}

// LedgerRepo returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
