package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// Map-backed fakes shared across the handler tests. Handlers are
// exercised through real application services wired onto these.

// claimsWithRole builds token claims for simulated authenticated requests
func claimsWithRole(userID, role string) *auth.Claims {
	return &auth.Claims{UserID: userID, Role: auth.Role(role)}
}

type fakeVariantRepo struct {
	mu       sync.Mutex
	variants map[uuid.UUID]*catalog.Variant
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{variants: make(map[uuid.UUID]*catalog.Variant)}
}

func (f *fakeVariantRepo) add(v *catalog.Variant) { f.variants[v.ID] = v }

func (f *fakeVariantRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVariantRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []catalog.Variant
	for _, id := range ids {
		if v, ok := f.variants[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (f *fakeVariantRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.variants {
		if v.SKU == sku {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVariantRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []catalog.Variant
	for _, v := range f.variants {
		if v.ProductID == productID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (f *fakeVariantRepo) Save(ctx context.Context, variant *catalog.Variant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variants[variant.ID] = variant
	return nil
}

func (f *fakeVariantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.variants, id)
	return nil
}

func (f *fakeVariantRepo) CurrentStock(ctx context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.variants[id]; ok {
		return v.StockQuantity, nil
	}
	return 0, shared.ErrNotFound
}

func (f *fakeVariantRepo) AddStock(ctx context.Context, id uuid.UUID, qty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return shared.ErrNotFound
	}
	v.StockQuantity += qty
	return nil
}

func (f *fakeVariantRepo) RemoveStockGuarded(ctx context.Context, id uuid.UUID, qty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v.StockQuantity < qty {
		return shared.ErrInsufficientStock
	}
	v.StockQuantity -= qty
	return nil
}

type fakeLedgerRepo struct {
	mu  sync.Mutex
	txs []*inventory.InventoryTransaction
}

func (f *fakeLedgerRepo) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeLedgerRepo) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, txs...)
	return nil
}

func (f *fakeLedgerRepo) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []inventory.InventoryTransaction
	for _, tx := range f.txs {
		if tx.VariantID == variantID {
			result = append(result, *tx)
		}
	}
	return result, nil
}

func (f *fakeLedgerRepo) FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) FindByReference(ctx context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, tx := range f.txs {
		if tx.VariantID == variantID {
			sum += tx.Delta
		}
	}
	return sum, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*inventory.StockReservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*inventory.StockReservation)}
}

func (f *fakeReservationRepo) Create(ctx context.Context, r *inventory.StockReservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reservations[id]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeReservationRepo) FindActiveByCheckoutRef(ctx context.Context, checkoutRef string) ([]inventory.StockReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []inventory.StockReservation
	for _, r := range f.reservations {
		if r.CheckoutRef == checkoutRef && r.Status == inventory.ReservationStatusHeld {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeReservationRepo) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]inventory.StockReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []inventory.StockReservation
	for _, r := range f.reservations {
		if r.Status == inventory.ReservationStatusHeld && r.ExpiresAt.Before(cutoff) {
			result = append(result, *r)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeReservationRepo) SumActiveByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, r := range f.reservations {
		if r.VariantID == variantID && r.Status == inventory.ReservationStatusHeld {
			sum += r.Quantity
		}
	}
	return sum, nil
}

func (f *fakeReservationRepo) Settle(ctx context.Context, id uuid.UUID, from, to inventory.ReservationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	lines map[uuid.UUID]*cart.CartLine
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[uuid.UUID]*cart.CartLine)}
}

func (f *fakeCartRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]cart.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []cart.CartLine
	for _, l := range f.lines {
		if l.OwnerID == ownerID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (f *fakeCartRepo) FindByOwnerAndVariant(ctx context.Context, ownerID, productID, variantID uuid.UUID) (*cart.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines {
		if l.OwnerID == ownerID && l.ProductID == productID && l.VariantID == variantID {
			return l, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCartRepo) Create(ctx context.Context, line *cart.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[line.ID] = line
	return nil
}

func (f *fakeCartRepo) Save(ctx context.Context, line *cart.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[line.ID] = line
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, id)
	return nil
}

func (f *fakeCartRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, l := range f.lines {
		if l.OwnerID == ownerID {
			delete(f.lines, id)
		}
	}
	return nil
}

type fakeDiscountRepo struct {
	codes map[string]*promotion.DiscountCode
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{codes: make(map[string]*promotion.DiscountCode)}
}

func (f *fakeDiscountRepo) add(code *promotion.DiscountCode) { f.codes[code.Code] = code }

func (f *fakeDiscountRepo) FindActiveByCode(ctx context.Context, code string) (*promotion.DiscountCode, error) {
	if c, ok := f.codes[code]; ok && c.Active {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeDiscountRepo) FindByID(ctx context.Context, id uuid.UUID) (*promotion.DiscountCode, error) {
	for _, c := range f.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeDiscountRepo) Save(ctx context.Context, code *promotion.DiscountCode) error {
	f.codes[code.Code] = code
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*order.CheckoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*order.CheckoutSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *order.CheckoutSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*order.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *order.CheckoutSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*order.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*order.Order)}
}

func (f *fakeOrderRepo) add(o *order.Order) { f.orders[o.ID] = o }

func (f *fakeOrderRepo) CreateIfAbsent(ctx context.Context, o *order.Order) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	if _, ok := f.orders[o.ID]; ok {
		return false, nil
	}
	f.orders[o.ID] = o
	return true, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderRepo) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []order.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

type fakeGateway struct {
	result *paymentapp.CreateSessionResult
	err    error
}

func (f *fakeGateway) CreateSession(ctx context.Context, req paymentapp.CreateSessionRequest) (*paymentapp.CreateSessionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDecoder struct {
	event *paymentapp.WebhookEvent
	err   error
}

func (f *fakeDecoder) DecodeEvent(payload []byte, signature string) (*paymentapp.WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}
