package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

type MockDiscountCodeRepository struct {
	mock.Mock
}

func (m *MockDiscountCodeRepository) FindActiveByCode(ctx context.Context, code string) (*promotion.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.DiscountCode), args.Error(1)
}

func (m *MockDiscountCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.DiscountCode), args.Error(1)
}

func (m *MockDiscountCodeRepository) Save(ctx context.Context, code *promotion.DiscountCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func newTestDiscountService(repo *MockDiscountCodeRepository) *DiscountService {
	return NewDiscountService(repo, zap.NewNop())
}

func TestApplyPercentageDiscount(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	code, err := promotion.NewDiscountCode("SAVE10", promotion.DiscountTypePercentage, decimal.NewFromInt(10))
	assert.NoError(t, err)
	repo.On("FindActiveByCode", mock.Anything, "SAVE10").Return(code, nil)

	applied, err := service.Apply(context.Background(), "save10", 10000, valueobject.USD)

	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.Equal(t, promotion.DiscountTypePercentage, applied.Type)
	assert.Equal(t, int64(1000), applied.AmountOff)
	assert.Equal(t, int64(9000), applied.NewSubtotal)
}

func TestApplyPercentageRoundsHalfUp(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	code, err := promotion.NewDiscountCode("SAVE10", promotion.DiscountTypePercentage, decimal.NewFromInt(10))
	assert.NoError(t, err)
	repo.On("FindActiveByCode", mock.Anything, "SAVE10").Return(code, nil)

	// 10% of 1005 is 100.5, which rounds to 101
	applied, err := service.Apply(context.Background(), "SAVE10", 1005, valueobject.USD)

	assert.NoError(t, err)
	assert.Equal(t, int64(101), applied.AmountOff)
	assert.Equal(t, int64(904), applied.NewSubtotal)
}

func TestApplyFixedDiscountCappedAtSubtotal(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	// $50 off a $30 cart discounts exactly $30
	code, err := promotion.NewDiscountCode("TAKE50", promotion.DiscountTypeFixedAmount, decimal.NewFromInt(5000))
	assert.NoError(t, err)
	repo.On("FindActiveByCode", mock.Anything, "TAKE50").Return(code, nil)

	applied, err := service.Apply(context.Background(), "TAKE50", 3000, valueobject.USD)

	assert.NoError(t, err)
	assert.Equal(t, int64(3000), applied.AmountOff)
	assert.Equal(t, int64(0), applied.NewSubtotal)
}

func TestApplyUnknownCode(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	repo.On("FindActiveByCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)

	_, err := service.Apply(context.Background(), "NOPE", 1000, valueobject.USD)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestApplyBeforeWindowOpens(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	starts := time.Now().Add(24 * time.Hour)
	code, err := promotion.NewDiscountCode("SOON", promotion.DiscountTypePercentage, decimal.NewFromInt(15))
	assert.NoError(t, err)
	code.WithWindow(&starts, nil)
	repo.On("FindActiveByCode", mock.Anything, "SOON").Return(code, nil)

	_, err = service.Apply(context.Background(), "SOON", 1000, valueobject.USD)

	assert.ErrorIs(t, err, shared.ErrDiscountNotStarted)
}

func TestApplyAfterWindowCloses(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	ended := time.Now().Add(-time.Hour)
	code, err := promotion.NewDiscountCode("LATE", promotion.DiscountTypePercentage, decimal.NewFromInt(15))
	assert.NoError(t, err)
	code.WithWindow(nil, &ended)
	repo.On("FindActiveByCode", mock.Anything, "LATE").Return(code, nil)

	_, err = service.Apply(context.Background(), "LATE", 1000, valueobject.USD)

	assert.ErrorIs(t, err, shared.ErrDiscountExpired)
}

func TestApplyBelowMinimum(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	code, err := promotion.NewDiscountCode("BIG", promotion.DiscountTypeFixedAmount, decimal.NewFromInt(1000))
	assert.NoError(t, err)
	code.WithMinimum(5000)
	repo.On("FindActiveByCode", mock.Anything, "BIG").Return(code, nil)

	_, err = service.Apply(context.Background(), "BIG", 4999, valueobject.USD)

	assert.ErrorIs(t, err, shared.ErrDiscountMinimum)
}

func TestApplyRejectsEmptyCode(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	service := newTestDiscountService(repo)

	_, err := service.Apply(context.Background(), "  ", 1000, valueobject.USD)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "FindActiveByCode", mock.Anything, mock.Anything)
}
