package cache

import (
	"context"
	"sync"
	"time"

	apppayment "github.com/storefront/backend/internal/application/payment"
)

// seenEntry records when a webhook event id stops counting as seen
type seenEntry struct {
	expiresAt time.Time
}

// InMemoryWebhookDeduper implements WebhookDeduper with a local map.
// Suitable for single-instance deployments and testing; separate
// processes do not share state, so redeliveries landing on another
// instance fall through to the order table's idempotent insert.
type InMemoryWebhookDeduper struct {
	mu        sync.RWMutex
	entries   map[string]seenEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryWebhookDeduper creates an in-memory webhook deduper and
// starts a background goroutine that drops expired entries
func NewInMemoryWebhookDeduper(ttl time.Duration) *InMemoryWebhookDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	deduper := &InMemoryWebhookDeduper{
		entries:  make(map[string]seenEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	deduper.wg.Add(1)
	go deduper.cleanupLoop()

	return deduper
}

// MarkSeen records the event id and reports whether this delivery is the first
func (d *InMemoryWebhookDeduper) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, exists := d.entries[eventID]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// Expired entry, overwrite below
	}

	d.entries[eventID] = seenEntry{
		expiresAt: time.Now().Add(d.ttl),
	}
	return true, nil
}

// Forget drops the event id so a redelivery is processed again.
// Called when processing failed after the id was marked seen.
func (d *InMemoryWebhookDeduper) Forget(ctx context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, eventID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (d *InMemoryWebhookDeduper) Close() error {
	d.closeOnce.Do(func() {
		close(d.stopChan)
		d.wg.Wait()
	})
	return nil
}

func (d *InMemoryWebhookDeduper) cleanupLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.cleanup()
		}
	}
}

func (d *InMemoryWebhookDeduper) cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for eventID, e := range d.entries {
		if now.After(e.expiresAt) {
			delete(d.entries, eventID)
		}
	}
}

// Size returns the number of tracked event ids (for testing/monitoring)
func (d *InMemoryWebhookDeduper) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Ensure InMemoryWebhookDeduper implements WebhookDeduper
var _ apppayment.WebhookDeduper = (*InMemoryWebhookDeduper)(nil)
