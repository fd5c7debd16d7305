package promotion

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DiscountService answers "what would this code do to this subtotal".
// It is a pure read path; recording actual usage happens when the
// checkout session that carries the code settles.
type DiscountService struct {
	codeRepo promotion.DiscountCodeRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewDiscountService creates a discount service
func NewDiscountService(codeRepo promotion.DiscountCodeRepository, logger *zap.Logger) *DiscountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountService{
		codeRepo: codeRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Apply evaluates a discount code against a cart subtotal in minor
// units and returns the resulting reduction. The code must be active,
// inside its window, and the subtotal must meet its minimum.
func (s *DiscountService) Apply(ctx context.Context, code string, subtotal int64, currency valueobject.Currency) (*AppliedDiscount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "discount code is required")
	}
	if subtotal < 0 {
		return nil, shared.NewDomainError("INVALID_SUBTOTAL", "subtotal cannot be negative")
	}
	if currency == "" {
		currency = valueobject.USD
	}

	discount, err := s.codeRepo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := discount.EnsureUsable(subtotal, s.now()); err != nil {
		return nil, err
	}

	subtotalMoney, err := valueobject.NewMoney(subtotal, currency)
	if err != nil {
		return nil, err
	}
	amountOff := discount.AmountOff(subtotalMoney)

	s.logger.Debug("discount evaluated",
		zap.String("code", discount.Code),
		zap.Int64("subtotal", subtotal),
		zap.Int64("amount_off", amountOff.Amount()))

	return &AppliedDiscount{
		Code:        discount.Code,
		Type:        discount.Type,
		Value:       discount.Value,
		AmountOff:   amountOff.Amount(),
		NewSubtotal: subtotal - amountOff.Amount(),
	}, nil
}
