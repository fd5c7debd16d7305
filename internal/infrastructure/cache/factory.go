package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	apppayment "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// WebhookDeduperFactory creates webhook dedupers based on configuration
type WebhookDeduperFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WebhookDeduperFactoryOption is a functional option for configuring the factory
type WebhookDeduperFactoryOption func(*WebhookDeduperFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) WebhookDeduperFactoryOption {
	return func(f *WebhookDeduperFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// deduper when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) WebhookDeduperFactoryOption {
	return func(f *WebhookDeduperFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewWebhookDeduperFactory creates a new factory
func NewWebhookDeduperFactory(cfg config.RedisConfig, ttl time.Duration, opts ...WebhookDeduperFactoryOption) *WebhookDeduperFactory {
	f := &WebhookDeduperFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisDeduper creates a Redis-backed webhook deduper
func (f *WebhookDeduperFactory) CreateRedisDeduper() (apppayment.WebhookDeduper, error) {
	deduper, err := NewRedisWebhookDeduper(f.redisConfig, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis webhook deduper: %w", err)
	}
	return deduper, nil
}

// CreateInMemoryDeduper creates an in-memory webhook deduper
func (f *WebhookDeduperFactory) CreateInMemoryDeduper() apppayment.WebhookDeduper {
	return NewInMemoryWebhookDeduper(f.ttl)
}

// CreateDeduper tries Redis first and falls back to in-memory when
// Redis is unavailable and fallback is allowed. Instances that fall
// back still deduplicate correctly through the order insert; they only
// lose the fast path.
func (f *WebhookDeduperFactory) CreateDeduper() (apppayment.WebhookDeduper, error) {
	if f.redisConfig.Enabled {
		deduper, err := f.CreateRedisDeduper()
		if err == nil {
			f.logger.Info("using Redis webhook deduper")
			return deduper, nil
		}

		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for webhook dedup but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-memory webhook deduper",
			zap.Error(err))
	}

	return f.CreateInMemoryDeduper(), nil
}
