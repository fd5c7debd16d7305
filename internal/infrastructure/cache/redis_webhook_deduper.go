package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apppayment "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// RedisWebhookDeduper implements WebhookDeduper using Redis. It is the
// fast path for webhook redelivery; the order table's primary key
// remains the idempotency anchor when Redis is cold or unavailable.
type RedisWebhookDeduper struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient opens a Redis connection from the application settings
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisWebhookDeduper creates a Redis-backed webhook deduper
func NewRedisWebhookDeduper(cfg config.RedisConfig, ttl time.Duration) (*RedisWebhookDeduper, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisWebhookDeduperWithClient(client, "", ttl), nil
}

// NewRedisWebhookDeduperWithClient creates a deduper with an existing
// Redis client. Useful for testing or when sharing a client.
func NewRedisWebhookDeduperWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisWebhookDeduper {
	if keyPrefix == "" {
		keyPrefix = "webhook:event:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisWebhookDeduper{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// MarkSeen records the event id and reports whether this delivery is
// the first. SETNX with a TTL keeps the check and the write atomic.
func (d *RedisWebhookDeduper) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	key := d.keyPrefix + eventID

	first, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark webhook event as seen: %w", err)
	}
	return first, nil
}

// Forget drops the event id so a redelivery is processed again.
// Called when processing failed after the id was marked seen.
func (d *RedisWebhookDeduper) Forget(ctx context.Context, eventID string) error {
	if err := d.client.Del(ctx, d.keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("failed to clear webhook event marker: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (d *RedisWebhookDeduper) Close() error {
	return d.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (d *RedisWebhookDeduper) GetClient() *redis.Client {
	return d.client
}

// Ensure RedisWebhookDeduper implements WebhookDeduper
var _ apppayment.WebhookDeduper = (*RedisWebhookDeduper)(nil)
