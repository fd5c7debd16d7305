package payment

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// StripeConfig holds configuration for the Stripe hosted checkout
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// Currency is the default ISO currency for checkout sessions
	Currency string `json:"currency" mapstructure:"currency"`

	// SuccessURL is where Stripe redirects after a paid checkout
	SuccessURL string `json:"success_url" mapstructure:"success_url"`

	// CancelURL is where Stripe redirects after an abandoned checkout
	CancelURL string `json:"cancel_url" mapstructure:"cancel_url"`
}

// NewStripeConfig builds the Stripe configuration from the application
// payment settings. Redirect URLs are composed from the storefront base
// URL so the dashboard never needs separate configuration.
func NewStripeConfig(cfg config.PaymentConfig) *StripeConfig {
	base := strings.TrimRight(cfg.SiteBaseURL, "/")
	return &StripeConfig{
		SecretKey:     cfg.SecretKey,
		WebhookSecret: cfg.WebhookSecret,
		Currency:      strings.ToLower(cfg.Currency),
		SuccessURL:    base + cfg.SuccessPath,
		CancelURL:     base + cfg.CancelPath,
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key has unexpected format")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
