package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/application/payment"
	apppromotion "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// CheckoutService builds hosted payment sessions. Prices and stock are
// re-read from the catalog at build time; nothing submitted by the
// client is trusted beyond variant ids and quantities.
type CheckoutService struct {
	variantRepo  catalog.VariantRepository
	sessionRepo  order.CheckoutSessionRepository
	discounts    *apppromotion.DiscountService
	reservations *appinventory.ReservationService
	gateway      payment.PaymentGateway
	logger       *zap.Logger
	successURL   string
	cancelURL    string
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(
	variantRepo catalog.VariantRepository,
	sessionRepo order.CheckoutSessionRepository,
	discounts *apppromotion.DiscountService,
	reservations *appinventory.ReservationService,
	gateway payment.PaymentGateway,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		variantRepo:  variantRepo,
		sessionRepo:  sessionRepo,
		discounts:    discounts,
		reservations: reservations,
		gateway:      gateway,
		logger:       logger,
	}
}

// WithRedirectURLs sets where the gateway sends the shopper afterwards
func (s *CheckoutService) WithRedirectURLs(successURL, cancelURL string) *CheckoutService {
	s.successURL = successURL
	s.cancelURL = cancelURL
	return s
}

// CreateSession prices the cart, optionally holds its stock, opens a
// hosted session at the gateway and persists the local shadow.
func (s *CheckoutService) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_session",
		telemetry.WithAttribute("line_count", len(req.Items)))
	defer span.End()

	resp, err := s.createSession(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSessionID, resp.SessionID,
		telemetry.SpanAttrAmountMinor, resp.Total,
		telemetry.SpanAttrHoldRef, resp.HoldRef,
	)
	return resp, nil
}

func (s *CheckoutService) createSession(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "checkout requires at least one item")
	}
	if req.UserID == nil && req.Email == "" {
		return nil, shared.NewDomainError("MISSING_CONTACT", "guest checkout requires an email")
	}

	lines, currency, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.Total()
	}

	var discountAmount int64
	if req.DiscountCode != "" {
		applied, err := s.discounts.Apply(ctx, req.DiscountCode, subtotal, currency)
		if err != nil {
			return nil, err
		}
		discountAmount = applied.AmountOff
	}

	holdRef, holdExpiry, err := s.placeHold(ctx, req, lines)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.CreateSession(ctx, s.gatewayRequest(req, lines, currency, discountAmount, holdRef))
	if err != nil {
		s.abandonHold(ctx, holdRef)
		return nil, err
	}

	session, err := order.NewCheckoutSession(result.SessionID, req.UserID, req.Email, lines, currency)
	if err != nil {
		s.abandonHold(ctx, holdRef)
		return nil, err
	}
	if discountAmount > 0 {
		if err := session.ApplyDiscount(req.DiscountCode, discountAmount); err != nil {
			s.abandonHold(ctx, holdRef)
			return nil, err
		}
	}
	if holdRef != "" {
		session.AttachHold(holdRef)
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.abandonHold(ctx, holdRef)
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("lines", len(lines)),
		zap.Int64("subtotal", subtotal),
		zap.Bool("held", holdRef != ""))

	return &CheckoutResponse{
		SessionID:      session.ID,
		URL:            result.URL,
		Currency:       string(currency),
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
		HoldRef:        holdRef,
		HoldExpiresAt:  holdExpiry,
	}, nil
}

// priceLines resolves the requested variants against the catalog and
// snapshots their authoritative prices. Repeated variants are merged
// into one line; a single hold per variant covers the whole quantity.
func (s *CheckoutService) priceLines(ctx context.Context, items []CheckoutItem) ([]order.LineSnapshot, valueobject.Currency, error) {
	merged := make(map[uuid.UUID]int64, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.VariantID == uuid.Nil {
			return nil, "", shared.NewDomainError("INVALID_LINE", "variant id is required")
		}
		if item.Quantity < 1 {
			return nil, "", shared.NewDomainError("INVALID_QUANTITY", "quantity must be at least 1")
		}
		if _, seen := merged[item.VariantID]; !seen {
			ids = append(ids, item.VariantID)
		}
		merged[item.VariantID] += item.Quantity
	}

	variants, err := s.variantRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, "", err
	}
	byID := make(map[uuid.UUID]*catalog.Variant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	var currency valueobject.Currency
	lines := make([]order.LineSnapshot, 0, len(ids))
	for _, id := range ids {
		quantity := merged[id]
		variant, ok := byID[id]
		if !ok {
			return nil, "", fmt.Errorf("variant %s: %w", id, shared.ErrNotFound)
		}
		if !variant.Active {
			return nil, "", shared.NewDomainError("VARIANT_UNAVAILABLE", "variant is no longer sold")
		}
		if currency == "" {
			currency = variant.Currency
		} else if currency != variant.Currency {
			return nil, "", shared.NewDomainError("CURRENCY_MISMATCH", "cart mixes currencies")
		}
		// Advisory check; a hold or the settlement decrement is the
		// authoritative gate
		if variant.StockQuantity < quantity {
			return nil, "", fmt.Errorf("variant %s: %w", variant.SKU, shared.ErrInsufficientStock)
		}

		lines = append(lines, order.LineSnapshot{
			ProductID: variant.ProductID,
			VariantID: variant.ID,
			SKU:       variant.SKU,
			Name:      variant.Name,
			Quantity:  quantity,
			UnitPrice: variant.Price,
		})
	}
	return lines, currency, nil
}

// placeHold reserves the cart's stock under a fresh hold ref. All
// lines hold together or not at all.
func (s *CheckoutService) placeHold(ctx context.Context, req CheckoutRequest, lines []order.LineSnapshot) (string, *time.Time, error) {
	if !req.Hold {
		return "", nil, nil
	}

	holdRef := "chk_" + uuid.NewString()
	holdLines := make([]appinventory.HoldLine, 0, len(lines))
	for _, line := range lines {
		holdLines = append(holdLines, appinventory.HoldLine{VariantID: line.VariantID, Quantity: line.Quantity})
	}

	reservations, err := s.reservations.Hold(ctx, holdRef, holdLines)
	if err != nil {
		return "", nil, err
	}

	var expiry *time.Time
	if len(reservations) > 0 {
		expiry = &reservations[0].ExpiresAt
	}
	return holdRef, expiry, nil
}

// abandonHold releases a hold after a later step of session creation
// failed. Best effort; the TTL sweep is the backstop.
func (s *CheckoutService) abandonHold(ctx context.Context, holdRef string) {
	if holdRef == "" {
		return
	}
	if err := s.reservations.ReleaseByCheckoutRef(ctx, holdRef); err != nil {
		s.logger.Warn("failed to release hold after checkout error",
			zap.String("hold_ref", holdRef), zap.Error(err))
	}
}

func (s *CheckoutService) gatewayRequest(req CheckoutRequest, lines []order.LineSnapshot, currency valueobject.Currency, discountAmount int64, holdRef string) payment.CreateSessionRequest {
	items := make([]payment.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, payment.LineItem{
			Name:      line.Name,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Currency:  string(currency),
		})
	}

	metadata := map[string]string{}
	if req.UserID != nil {
		metadata[payment.MetadataUserID] = req.UserID.String()
	}
	if holdRef != "" {
		metadata[payment.MetadataHoldRef] = holdRef
	}

	return payment.CreateSessionRequest{
		Lines:          items,
		DiscountAmount: discountAmount,
		CustomerEmail:  req.Email,
		SuccessURL:     s.successURL,
		CancelURL:      s.cancelURL,
		Metadata:       metadata,
	}
}
