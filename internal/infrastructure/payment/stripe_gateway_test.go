package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"go.uber.org/zap"

	apppayment "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

// setupMockBackend sets up a mock Stripe backend for testing
func setupMockBackend(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) func() {
	mock := &mockBackend{handler: handler}
	stripe.SetBackend(stripe.APIBackend, mock)
	return func() {
		stripe.SetBackend(stripe.APIBackend, nil)
	}
}

// testStripeConfig returns a valid test configuration
func testStripeConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:     "sk_test_123456789",
		WebhookSecret: "whsec_test_123456789",
		Currency:      "usd",
		SuccessURL:    "https://shop.example.com/checkout/success",
		CancelURL:     "https://shop.example.com/cart",
	}
}

func testSessionRequest() apppayment.CreateSessionRequest {
	return apppayment.CreateSessionRequest{
		Lines: []apppayment.LineItem{
			{
				Name:      "Classic Tee / M / Black",
				SKU:       "TSHIRT-M-BLK",
				Quantity:  2,
				UnitPrice: 1999,
				Currency:  "usd",
			},
		},
		CustomerEmail: "shopper@example.com",
		SuccessURL:    "https://shop.example.com/checkout/success",
		CancelURL:     "https://shop.example.com/cart",
		Metadata: map[string]string{
			apppayment.MetadataHoldRef: "chk_abc123",
		},
	}
}

func TestNewStripeGateway(t *testing.T) {
	t.Run("creates gateway with valid config", func(t *testing.T) {
		gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())

		require.NoError(t, err)
		assert.NotNil(t, gateway)
	})

	t.Run("rejects missing secret key", func(t *testing.T) {
		cfg := testStripeConfig()
		cfg.SecretKey = ""

		gateway, err := NewStripeGateway(cfg, zap.NewNop())

		assert.Error(t, err)
		assert.Nil(t, gateway)
	})

	t.Run("nil logger falls back to nop", func(t *testing.T) {
		gateway, err := NewStripeGateway(testStripeConfig(), nil)

		require.NoError(t, err)
		assert.NotNil(t, gateway)
	})
}

func TestNewStripeConfig(t *testing.T) {
	t.Run("composes redirect URLs from the site base", func(t *testing.T) {
		cfg := NewStripeConfig(config.PaymentConfig{
			SecretKey:     "sk_test_abc",
			WebhookSecret: "whsec_abc",
			SiteBaseURL:   "https://shop.example.com/",
			SuccessPath:   "/checkout/success",
			CancelPath:    "/cart",
			Currency:      "USD",
		})

		assert.Equal(t, "https://shop.example.com/checkout/success", cfg.SuccessURL)
		assert.Equal(t, "https://shop.example.com/cart", cfg.CancelURL)
		assert.Equal(t, "usd", cfg.Currency)
	})
}

func TestStripeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StripeConfig)
		wantErr bool
	}{
		{"valid config", func(c *StripeConfig) {}, false},
		{"missing secret key", func(c *StripeConfig) { c.SecretKey = "" }, true},
		{"malformed secret key", func(c *StripeConfig) { c.SecretKey = "pk_test_123" }, true},
		{"restricted key accepted", func(c *StripeConfig) { c.SecretKey = "rk_test_123" }, false},
		{"missing webhook secret", func(c *StripeConfig) { c.WebhookSecret = "" }, true},
		{"missing currency", func(c *StripeConfig) { c.Currency = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStripeConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStripeGateway_CreateSession(t *testing.T) {
	t.Run("creates session and returns redirect URL", func(t *testing.T) {
		var gotParams *stripe.CheckoutSessionParams

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if p, ok := params.(*stripe.CheckoutSessionParams); ok {
				gotParams = p
			}
			return []byte(`{
				"id": "cs_test_abc123",
				"url": "https://checkout.stripe.com/c/pay/cs_test_abc123",
				"expires_at": 1756600000
			}`), nil
		})
		defer cleanup()

		gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())
		require.NoError(t, err)

		result, err := gateway.CreateSession(context.Background(), testSessionRequest())

		require.NoError(t, err)
		assert.Equal(t, "cs_test_abc123", result.SessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_abc123", result.URL)
		assert.False(t, result.ExpiresAt.IsZero())

		require.NotNil(t, gotParams)
		assert.Equal(t, "payment", *gotParams.Mode)
		assert.Equal(t, "shopper@example.com", *gotParams.CustomerEmail)
		require.Len(t, gotParams.LineItems, 1)
		assert.Equal(t, int64(2), *gotParams.LineItems[0].Quantity)
		assert.Equal(t, int64(1999), *gotParams.LineItems[0].PriceData.UnitAmount)
		assert.Equal(t, "TSHIRT-M-BLK", gotParams.LineItems[0].PriceData.ProductData.Metadata["sku"])
		assert.Equal(t, "chk_abc123", gotParams.Metadata[apppayment.MetadataHoldRef])
		assert.Empty(t, gotParams.Discounts)
	})

	t.Run("attaches a one-off coupon for discounts", func(t *testing.T) {
		var couponParams *stripe.CouponParams
		var sessionParams *stripe.CheckoutSessionParams

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			switch p := params.(type) {
			case *stripe.CouponParams:
				couponParams = p
				return []byte(`{"id": "coupon_once_400"}`), nil
			case *stripe.CheckoutSessionParams:
				sessionParams = p
				return []byte(`{"id": "cs_test_disc", "url": "https://checkout.stripe.com/c/pay/cs_test_disc"}`), nil
			}
			return nil, fmt.Errorf("unexpected params type")
		})
		defer cleanup()

		gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())
		require.NoError(t, err)

		req := testSessionRequest()
		req.DiscountAmount = 400

		result, err := gateway.CreateSession(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "cs_test_disc", result.SessionID)

		require.NotNil(t, couponParams)
		assert.Equal(t, int64(400), *couponParams.AmountOff)
		assert.Equal(t, "once", *couponParams.Duration)

		require.NotNil(t, sessionParams)
		require.Len(t, sessionParams.Discounts, 1)
		assert.Equal(t, "coupon_once_400", *sessionParams.Discounts[0].Coupon)
	})

	t.Run("defaults line currency from config", func(t *testing.T) {
		var gotParams *stripe.CheckoutSessionParams

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if p, ok := params.(*stripe.CheckoutSessionParams); ok {
				gotParams = p
			}
			return []byte(`{"id": "cs_test_cur", "url": "https://example.com"}`), nil
		})
		defer cleanup()

		gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())
		require.NoError(t, err)

		req := testSessionRequest()
		req.Lines[0].Currency = ""

		_, err = gateway.CreateSession(context.Background(), req)

		require.NoError(t, err)
		require.NotNil(t, gotParams)
		assert.Equal(t, "usd", *gotParams.LineItems[0].PriceData.Currency)
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return nil, fmt.Errorf("stripe is down")
		})
		defer cleanup()

		gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())
		require.NoError(t, err)

		result, err := gateway.CreateSession(context.Background(), testSessionRequest())

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestStripeGateway_InterfaceCompliance(t *testing.T) {
	gateway, err := NewStripeGateway(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	var _ apppayment.PaymentGateway = gateway
}
