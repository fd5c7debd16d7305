package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormInventoryTransactionRepository implements the append-only ledger
// using GORM. Rows are only ever inserted; there is no update or
// delete path through this repository.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Create appends a single transaction to the ledger
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CreateBatch appends multiple transactions to the ledger
func (r *GormInventoryTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(txs).Error
}

// FindByVariant returns the ledger entries for a variant, newest first
func (r *GormInventoryTransactionRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := applyListFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
			Where("variant_id = ?", variantID),
		filter, LedgerSortFields, "occurred_at",
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReservation returns the ledger entries linked to a reservation
func (r *GormInventoryTransactionRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("occurred_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReference returns the ledger entries linked to an order or session
func (r *GormInventoryTransactionRepository) FindByReference(ctx context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("occurred_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SumDeltas returns the net ledger delta for a variant
func (r *GormInventoryTransactionRepository) SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select("COALESCE(SUM(delta), 0) as total").
		Where("variant_id = ?", variantID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Ensure GormInventoryTransactionRepository implements InventoryTransactionRepository
var _ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
