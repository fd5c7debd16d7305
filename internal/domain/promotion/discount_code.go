package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DiscountType represents how a discount code computes its reduction
type DiscountType string

const (
	// DiscountTypePercentage takes a percentage off the subtotal
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixedAmount takes a fixed minor-unit amount off,
	// capped at the subtotal
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// IsValid returns true if the discount type is valid
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

// DiscountCode is a promotional code. Immutable once created except
// for the active flag; the checkout pipeline only reads it.
type DiscountCode struct {
	shared.BaseEntity
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type          DiscountType    `gorm:"type:varchar(20);not null"`
	Value         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // percent, or minor units for fixed
	MinimumAmount int64           `gorm:"not null;default:0"`          // minor units
	StartsAt      *time.Time      `gorm:"type:timestamptz"`
	EndsAt        *time.Time      `gorm:"type:timestamptz"`
	Active        bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// NewDiscountCode creates a new discount code
func NewDiscountCode(code string, discountType DiscountType, value decimal.Decimal) (*DiscountCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Discount code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Discount code cannot exceed 50 characters")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Invalid discount type")
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Percentage discount cannot exceed 100")
	}

	return &DiscountCode{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Type:       discountType,
		Value:      value,
		Active:     true,
	}, nil
}

// WithWindow sets the active window of the code
func (d *DiscountCode) WithWindow(startsAt, endsAt *time.Time) *DiscountCode {
	d.StartsAt = startsAt
	d.EndsAt = endsAt
	return d
}

// WithMinimum sets the minimum order amount in minor units
func (d *DiscountCode) WithMinimum(minimum int64) *DiscountCode {
	d.MinimumAmount = minimum
	return d
}

// Deactivate turns the code off
func (d *DiscountCode) Deactivate() {
	d.Active = false
	d.Touch()
}

// EnsureUsable checks the active window and minimum order amount
// against a subtotal at the given time
func (d *DiscountCode) EnsureUsable(subtotal int64, at time.Time) error {
	if d.StartsAt != nil && at.Before(*d.StartsAt) {
		return shared.ErrDiscountNotStarted
	}
	if d.EndsAt != nil && at.After(*d.EndsAt) {
		return shared.ErrDiscountExpired
	}
	if subtotal < d.MinimumAmount {
		return shared.ErrDiscountMinimum
	}
	return nil
}

// AmountOff computes the discount in minor units for a subtotal.
// Percentage codes round half up; fixed codes never exceed the
// subtotal so the result can never go negative.
func (d *DiscountCode) AmountOff(subtotal valueobject.Money) valueobject.Money {
	switch d.Type {
	case DiscountTypePercentage:
		return subtotal.Percent(d.Value)
	case DiscountTypeFixedAmount:
		fixed, _ := valueobject.NewMoney(d.Value.IntPart(), subtotal.Currency())
		capped, _ := subtotal.Min(fixed)
		return capped
	default:
		return valueobject.Zero(subtotal.Currency())
	}
}
