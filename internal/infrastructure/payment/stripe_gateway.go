package payment

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/coupon"
	"go.uber.org/zap"

	apppayment "github.com/storefront/backend/internal/application/payment"
)

// StripeGateway implements the hosted checkout against Stripe Checkout
// Sessions. Stripe issues the session id that becomes the local shadow's
// primary key; prices always travel in minor units.
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateSession opens a hosted checkout session at Stripe
func (g *StripeGateway) CreateSession(ctx context.Context, req apppayment.CreateSessionRequest) (*apppayment.CreateSessionResult, error) {
	g.logger.Debug("Creating Stripe checkout session",
		zap.Int("lines", len(req.Lines)),
		zap.Int64("discount_amount", req.DiscountAmount))

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines)),
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	for _, line := range req.Lines {
		currency := line.Currency
		if currency == "" {
			currency = g.config.Currency
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(line.UnitPrice),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
					Metadata: map[string]string{
						"sku": line.SKU,
					},
				},
			},
		})
	}

	if req.DiscountAmount > 0 {
		couponID, err := g.createOneOffCoupon(ctx, req.DiscountAmount)
		if err != nil {
			return nil, err
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(couponID)},
		}
	}

	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		maps.Copy(params.Metadata, req.Metadata)
	}

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session", zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("session_id", sess.ID))

	return &apppayment.CreateSessionResult{
		SessionID: sess.ID,
		URL:       sess.URL,
		ExpiresAt: time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// createOneOffCoupon turns an already computed discount amount into a
// single-use Stripe coupon attached to the session. Stripe has no raw
// amount-off parameter on checkout sessions.
func (g *StripeGateway) createOneOffCoupon(ctx context.Context, amount int64) (string, error) {
	params := &stripe.CouponParams{
		AmountOff:      stripe.Int64(amount),
		Currency:       stripe.String(g.config.Currency),
		Duration:       stripe.String(string(stripe.CouponDurationOnce)),
		MaxRedemptions: stripe.Int64(1),
	}
	params.Context = ctx

	c, err := coupon.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe coupon",
			zap.Int64("amount_off", amount),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create discount coupon: %w", err)
	}
	return c.ID, nil
}

// Ensure StripeGateway implements PaymentGateway
var _ apppayment.PaymentGateway = (*StripeGateway)(nil)
