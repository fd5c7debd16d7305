package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// MergeService reconciles a client-side cart with the server-side cart
// for an authenticated owner. Merging is additive: a line the owner
// already has gains the incoming quantity instead of being replaced.
type MergeService struct {
	lineRepo cart.CartLineRepository
	logger   *zap.Logger
}

// NewMergeService creates a cart merge service
func NewMergeService(lineRepo cart.CartLineRepository, logger *zap.Logger) *MergeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeService{
		lineRepo: lineRepo,
		logger:   logger,
	}
}

// Merge folds the incoming lines into the owner's persisted cart.
// Malformed lines are skipped and counted rather than failing the
// whole merge, so a stale client payload cannot block sign-in.
func (s *MergeService) Merge(ctx context.Context, ownerID uuid.UUID, incoming []IncomingLine) (*MergeResult, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "owner id is required")
	}

	result := &MergeResult{}
	for _, line := range incoming {
		if err := s.mergeLine(ctx, ownerID, line); err != nil {
			result.Errors++
			s.logger.Warn("cart line skipped during merge",
				zap.String("owner_id", ownerID.String()),
				zap.String("variant_id", line.VariantID.String()),
				zap.Error(err))
			continue
		}
		result.Merged++
	}
	return result, nil
}

func (s *MergeService) mergeLine(ctx context.Context, ownerID uuid.UUID, line IncomingLine) error {
	if line.ProductID == uuid.Nil || line.VariantID == uuid.Nil {
		return shared.NewDomainError("INVALID_LINE", "product and variant ids are required")
	}
	if line.Quantity < 1 {
		return shared.NewDomainError("INVALID_LINE", "quantity must be at least 1")
	}

	existing, err := s.lineRepo.FindByOwnerAndVariant(ctx, ownerID, line.ProductID, line.VariantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if existing != nil {
		if err := existing.IncreaseQuantity(line.Quantity); err != nil {
			return err
		}
		return s.lineRepo.Save(ctx, existing)
	}

	created, err := cart.NewCartLine(ownerID, line.ProductID, line.VariantID, line.Quantity, line.PriceAtTime)
	if err != nil {
		return err
	}
	return s.lineRepo.Create(ctx, created)
}

// List returns the owner's persisted cart lines
func (s *MergeService) List(ctx context.Context, ownerID uuid.UUID) ([]LineResponse, error) {
	lines, err := s.lineRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]LineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, ToLineResponse(&lines[i]))
	}
	return responses, nil
}

// Clear removes every line in the owner's cart. Called after a
// checkout session completes.
func (s *MergeService) Clear(ctx context.Context, ownerID uuid.UUID) error {
	return s.lineRepo.DeleteByOwner(ctx, ownerID)
}
