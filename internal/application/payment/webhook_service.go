package payment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	appinventory "github.com/storefront/backend/internal/application/inventory"
	domaininventory "github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// WebhookDeduper short-circuits redelivered events before any database
// work. It is best effort only; the order table's primary key is the
// idempotency anchor even when the deduper is unavailable.
type WebhookDeduper interface {
	// MarkSeen records the event id and reports whether this is the
	// first time it was seen
	MarkSeen(ctx context.Context, eventID string) (bool, error)
	// Forget drops a previously recorded event id so a redelivery is
	// processed again
	Forget(ctx context.Context, eventID string) error
}

// WebhookResult summarizes what one delivery caused
type WebhookResult struct {
	EventID      string    `json:"event_id"`
	Kind         EventKind `json:"kind"`
	SessionID    string    `json:"session_id,omitempty"`
	OrderCreated bool      `json:"order_created"`
	Duplicate    bool      `json:"duplicate"`
}

// WebhookService turns verified gateway events into order rows and
// stock settlements. Every path is safe to replay: redelivered
// success events find the order already present and do nothing.
type WebhookService struct {
	decoder      WebhookDecoder
	sessionRepo  order.CheckoutSessionRepository
	orderRepo    order.OrderRepository
	reservations *appinventory.ReservationService
	ledger       *appinventory.LedgerService
	deduper      WebhookDeduper
	logger       *zap.Logger
	shipping     int64 // flat shipping in minor units
}

// NewWebhookService creates a webhook service
func NewWebhookService(
	decoder WebhookDecoder,
	sessionRepo order.CheckoutSessionRepository,
	orderRepo order.OrderRepository,
	reservations *appinventory.ReservationService,
	ledger *appinventory.LedgerService,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		decoder:      decoder,
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		reservations: reservations,
		ledger:       ledger,
		logger:       logger,
	}
}

// WithDeduper enables the fast-path duplicate check
func (s *WebhookService) WithDeduper(deduper WebhookDeduper) *WebhookService {
	s.deduper = deduper
	return s
}

// WithFlatShipping sets the flat shipping amount added to order totals
func (s *WebhookService) WithFlatShipping(amount int64) *WebhookService {
	if amount > 0 {
		s.shipping = amount
	}
	return s
}

// Process verifies, decodes and settles one webhook delivery
func (s *WebhookService) Process(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "process_webhook")
	defer span.End()

	event, err := s.decoder.DecodeEvent(payload, signature)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEventKind, string(event.Kind),
		telemetry.SpanAttrSessionID, event.SessionID,
	)

	result := &WebhookResult{EventID: event.ID, Kind: event.Kind, SessionID: event.SessionID}

	if event.Kind == EventKindIgnored {
		return result, nil
	}

	var marked bool
	if s.deduper != nil && event.ID != "" {
		first, err := s.deduper.MarkSeen(ctx, event.ID)
		if err != nil {
			// Deduper outage falls through to the database anchor
			s.logger.Warn("webhook dedup check failed", zap.String("event_id", event.ID), zap.Error(err))
		} else if !first {
			result.Duplicate = true
			return result, nil
		} else {
			marked = true
		}
	}

	switch event.Kind {
	case EventKindPaymentSucceeded:
		err = s.handlePaymentSucceeded(ctx, event, result)
	case EventKindPaymentFailed:
		err = s.handlePaymentFailed(ctx, event)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		if marked {
			// The event was not settled; drop the seen marker so the
			// gateway's redelivery reaches the database anchor instead
			// of short-circuiting here.
			if ferr := s.deduper.Forget(ctx, event.ID); ferr != nil {
				s.logger.Warn("failed to clear webhook dedup marker",
					zap.String("event_id", event.ID), zap.Error(ferr))
			}
		}
	}
	return result, err
}

func (s *WebhookService) handlePaymentSucceeded(ctx context.Context, event *WebhookEvent, result *WebhookResult) error {
	session, err := s.sessionRepo.FindByID(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No local shadow to settle against. If the checkout managed
			// to attach a hold before the shadow was lost, free that
			// stock now instead of waiting for the TTL sweep.
			s.logger.Warn("payment succeeded for unknown session",
				zap.String("session_id", event.SessionID))
			if holdRef := HoldRefFromMetadata(event.Metadata); holdRef != "" {
				return s.reservations.ReleaseByCheckoutRef(ctx, holdRef)
			}
			return nil
		}
		return err
	}

	newOrder := order.NewOrderFromSession(session, s.shipping)
	created, err := s.orderRepo.CreateIfAbsent(ctx, newOrder)
	if err != nil {
		return err
	}
	if !created {
		result.Duplicate = true
		s.logger.Info("order already settled for session",
			zap.String("session_id", session.ID))
		return nil
	}
	result.OrderCreated = true

	if err := s.settleStock(ctx, session, newOrder.ID); err != nil {
		// The order row exists; stock settlement failing here needs an
		// operator, not a gateway retry that would double-settle.
		s.logger.Error("stock settlement failed after order creation",
			zap.String("session_id", session.ID), zap.Error(err))
	}

	if err := session.Complete(); err == nil {
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			s.logger.Warn("failed to mark session completed",
				zap.String("session_id", session.ID), zap.Error(err))
		}
	}

	s.logger.Info("order created from webhook",
		zap.String("order_id", newOrder.ID),
		zap.Int64("total", newOrder.Total))
	return nil
}

// settleStock consumes the holds placed at checkout, or decrements
// stock directly for lines without a live hold (none was requested,
// or the hold expired and was swept before payment landed).
func (s *WebhookService) settleStock(ctx context.Context, session *order.CheckoutSession, orderRef string) error {
	if session.HoldRef == "" {
		return s.decrementLines(ctx, session.Lines, orderRef)
	}

	settled, err := s.reservations.ConsumeByCheckoutRef(ctx, session.HoldRef, orderRef)
	if err != nil {
		return err
	}

	var unheld []order.LineSnapshot
	for _, line := range session.Lines {
		if settled[line.VariantID] >= line.Quantity {
			continue
		}
		unheld = append(unheld, line)
	}
	if len(unheld) > 0 {
		s.logger.Info("holds no longer cover the order, decrementing directly",
			zap.String("hold_ref", session.HoldRef),
			zap.Int("lines", len(unheld)))
	}
	return s.decrementLines(ctx, unheld, orderRef)
}

func (s *WebhookService) decrementLines(ctx context.Context, lines []order.LineSnapshot, orderRef string) error {
	for _, line := range lines {
		err := s.ledger.Record(ctx, line.VariantID, -line.Quantity, domaininventory.TransactionKindDecrement, orderRef)
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				// Paid but out of stock: record it and keep going so
				// the other lines still settle
				s.logger.Error("paid order exceeds available stock",
					zap.String("variant_id", line.VariantID.String()),
					zap.Int64("quantity", line.Quantity),
					zap.String("order_ref", orderRef))
				continue
			}
			return err
		}
	}
	return nil
}

func (s *WebhookService) handlePaymentFailed(ctx context.Context, event *WebhookEvent) error {
	session, err := s.sessionRepo.FindByID(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No shadow; release anything held under the checkout's
			// hold ref, or the gateway session id if none was attached
			ref := HoldRefFromMetadata(event.Metadata)
			if ref == "" {
				ref = event.SessionID
			}
			return s.reservations.ReleaseByCheckoutRef(ctx, ref)
		}
		return err
	}

	if session.HoldRef != "" {
		if err := s.reservations.ReleaseByCheckoutRef(ctx, session.HoldRef); err != nil {
			return err
		}
	}
	if err := session.Abandon(); err != nil {
		// Already completed or abandoned
		return nil
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	s.logger.Info("session abandoned after failed payment",
		zap.String("session_id", session.ID))
	return nil
}

// HoldRefFromMetadata extracts the hold ref a checkout attached to the
// gateway session, if any
func HoldRefFromMetadata(metadata map[string]string) string {
	return metadata[MetadataHoldRef]
}
