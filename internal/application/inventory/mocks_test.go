package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVariantRepository) CurrentStock(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) AddStock(ctx context.Context, id uuid.UUID, qty int64) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockVariantRepository) RemoveStockGuarded(ctx context.Context, id uuid.UUID, qty int64) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

// MockReservationRepository is a mock implementation of inventory.StockReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *inventory.StockReservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockReservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveByCheckoutRef(ctx context.Context, checkoutRef string) ([]inventory.StockReservation, error) {
	args := m.Called(ctx, checkoutRef)
	return args.Get(0).([]inventory.StockReservation), args.Error(1)
}

func (m *MockReservationRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]inventory.StockReservation, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]inventory.StockReservation), args.Error(1)
}

func (m *MockReservationRepository) SumActiveByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) Settle(ctx context.Context, id uuid.UUID, from, to inventory.ReservationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock implementation of inventory.InventoryTransactionRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, variantID, filter)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindByReference(ctx context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(int64), args.Error(1)
}

// newTestScope wires mocks into a NoOpTransactionScope
func newTestScope(variants *MockVariantRepository, reservations *MockReservationRepository, ledger *MockLedgerRepository) *NoOpTransactionScope {
	return NewNoOpTransactionScope(variants, reservations, ledger)
}
