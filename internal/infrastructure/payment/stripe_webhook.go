package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	apppayment "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/shared"
)

// StripeWebhookDecoder verifies Stripe webhook deliveries and maps them
// to neutral events. Verification failures surface as ErrInvalidSignature
// so the transport layer can answer 400 without retry headers.
type StripeWebhookDecoder struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeWebhookDecoder creates a new StripeWebhookDecoder
func NewStripeWebhookDecoder(webhookSecret string, logger *zap.Logger) *StripeWebhookDecoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeWebhookDecoder{
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// DecodeEvent verifies the signature and translates the Stripe event
func (d *StripeWebhookDecoder) DecodeEvent(payload []byte, signature string) (*apppayment.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, d.webhookSecret)
	if err != nil {
		d.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return nil, shared.ErrInvalidSignature
	}

	decoded := &apppayment.WebhookEvent{
		ID:   event.ID,
		Kind: mapStripeEventKind(event.Type),
	}

	if decoded.Kind == apppayment.EventKindIgnored {
		d.logger.Debug("Ignoring webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return decoded, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: failed to unmarshal checkout session: %w", err)
	}

	decoded.SessionID = sess.ID
	decoded.Metadata = sess.Metadata

	d.logger.Debug("Decoded webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("session_id", sess.ID))

	return decoded, nil
}

// mapStripeEventKind collapses Stripe's event taxonomy to the kinds the
// settlement pipeline acts on
func mapStripeEventKind(eventType stripe.EventType) apppayment.EventKind {
	switch eventType {
	case "checkout.session.completed":
		return apppayment.EventKindPaymentSucceeded
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		return apppayment.EventKindPaymentFailed
	default:
		return apppayment.EventKindIgnored
	}
}

// Ensure StripeWebhookDecoder implements WebhookDecoder
var _ apppayment.WebhookDecoder = (*StripeWebhookDecoder)(nil)
