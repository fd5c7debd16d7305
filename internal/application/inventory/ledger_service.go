package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerService is the sole write path for stock. Every change to a
// variant's stock quantity happens here as a guarded conditional update
// paired with an append-only ledger transaction, inside one database
// transaction. Nothing reads stock, checks it in application code, and
// writes a new value.
type LedgerService struct {
	variantRepo    catalog.VariantRepository
	ledgerRepo     inventory.InventoryTransactionRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	variantRepo catalog.VariantRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		variantRepo: variantRepo,
		ledgerRepo:  ledgerRepo,
		scope:       scope,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CurrentStock returns the authoritative stock quantity of a variant
func (s *LedgerService) CurrentStock(ctx context.Context, variantID uuid.UUID) (int64, error) {
	return s.variantRepo.CurrentStock(ctx, variantID)
}

// GetStock returns the stock of a variant together with its SKU
func (s *LedgerService) GetStock(ctx context.Context, variantID uuid.UUID) (*StockResponse, error) {
	variant, err := s.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return &StockResponse{
		VariantID:     variant.ID,
		SKU:           variant.SKU,
		StockQuantity: variant.StockQuantity,
	}, nil
}

// Record applies a signed stock delta and appends the matching ledger
// transaction atomically. Decreasing deltas use a guarded update that
// refuses to drive stock below zero; shared.ErrInsufficientStock is
// returned and nothing is written in that case.
func (s *LedgerService) Record(ctx context.Context, variantID uuid.UUID, delta int64, kind inventory.TransactionKind, reference string) error {
	tx, err := inventory.NewInventoryTransaction(variantID, kind, delta)
	if err != nil {
		return err
	}
	if reference != "" {
		tx.WithReference(reference)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if delta < 0 {
			if err := repos.VariantRepo().RemoveStockGuarded(ctx, variantID, -delta); err != nil {
				return err
			}
		} else {
			if err := repos.VariantRepo().AddStock(ctx, variantID, delta); err != nil {
				return err
			}
		}
		return repos.LedgerRepo().Create(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.afterStockChange(ctx, variantID, tx)
	return nil
}

// Sync applies a privileged manual adjustment and returns the new stock
func (s *LedgerService) Sync(ctx context.Context, variantID uuid.UUID, delta int64) (*SyncResult, error) {
	if err := s.Record(ctx, variantID, delta, inventory.TransactionKindAdjust, ""); err != nil {
		return nil, err
	}

	stock, err := s.variantRepo.CurrentStock(ctx, variantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock synced",
		zap.String("variant_id", variantID.String()),
		zap.Int64("delta", delta),
		zap.Int64("stock_quantity", stock),
	)

	return &SyncResult{
		VariantID:     variantID,
		Delta:         delta,
		StockQuantity: stock,
	}, nil
}

// Restock adds received stock with an optional note
func (s *LedgerService) Restock(ctx context.Context, variantID uuid.UUID, qty int64, note string) error {
	tx, err := inventory.NewInventoryTransaction(variantID, inventory.TransactionKindRestock, qty)
	if err != nil {
		return err
	}
	if note != "" {
		tx.WithNote(note)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.VariantRepo().AddStock(ctx, variantID, qty); err != nil {
			return err
		}
		return repos.LedgerRepo().Create(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, inventory.NewStockRestockedEvent(variantID, qty, note))
	return nil
}

// ListByVariant returns the ledger entries for a variant, newest first
func (s *LedgerService) ListByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]LedgerEntryResponse, error) {
	txs, err := s.ledgerRepo.FindByVariant(ctx, variantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]LedgerEntryResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, ToLedgerEntryResponse(&txs[i]))
	}
	return responses, nil
}

// Reconcile compares the net ledger delta for a variant against its
// stock counter. A mismatch indicates a write that bypassed the ledger.
func (s *LedgerService) Reconcile(ctx context.Context, variantID uuid.UUID) (bool, error) {
	sum, err := s.ledgerRepo.SumDeltas(ctx, variantID)
	if err != nil {
		return false, err
	}
	stock, err := s.variantRepo.CurrentStock(ctx, variantID)
	if err != nil {
		return false, err
	}

	balanced := sum == stock
	if !balanced {
		s.logger.Warn("ledger does not reconcile with stock counter",
			zap.String("variant_id", variantID.String()),
			zap.Int64("ledger_sum", sum),
			zap.Int64("stock_quantity", stock),
		)
	}
	return balanced, nil
}

// afterStockChange publishes events describing a committed movement
func (s *LedgerService) afterStockChange(ctx context.Context, variantID uuid.UUID, tx *inventory.InventoryTransaction) {
	if tx.Kind == inventory.TransactionKindDecrement {
		s.publish(ctx, inventory.NewStockDecrementedEvent(variantID, tx.Quantity(), tx.Reference))
	}
	s.checkLowStock(ctx, variantID)
}

// checkLowStock publishes a LowStockReached event when the variant has
// fallen below its restock threshold
func (s *LedgerService) checkLowStock(ctx context.Context, variantID uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	variant, err := s.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return
	}
	if variant.IsBelowThreshold(variant.StockQuantity) {
		s.publish(ctx, inventory.NewLowStockReachedEvent(variant.ID, variant.SKU, variant.StockQuantity, variant.LowStockThreshold))
	}
}

func (s *LedgerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	// Publish failures are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
}
