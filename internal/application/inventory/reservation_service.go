package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// DefaultReservationTTL is how long an unconfirmed hold claims stock
	DefaultReservationTTL = 15 * time.Minute
)

// ReservationService places and settles short-lived holds on stock.
// A hold removes stock through the guarded ledger path at hold time,
// so consuming a reservation never touches stock again and releasing
// one simply adds it back.
type ReservationService struct {
	reservationRepo inventory.StockReservationRepository
	scope           TransactionScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	ttl             time.Duration
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	reservationRepo inventory.StockReservationRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		scope:           scope,
		logger:          logger,
		ttl:             DefaultReservationTTL,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTTL overrides the default reservation TTL
func (s *ReservationService) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// TTL returns the configured reservation TTL
func (s *ReservationService) TTL() time.Duration {
	return s.ttl
}

// HeldQuantity reports how many units of a variant are tied up in
// active holds
func (s *ReservationService) HeldQuantity(ctx context.Context, variantID uuid.UUID) (int64, error) {
	return s.reservationRepo.SumActiveByVariant(ctx, variantID)
}

// Hold atomically claims stock for every line of a checkout. Each line
// gets a guarded stock decrement, a hold transaction and a reservation
// row. If any line cannot be held the whole set rolls back; a checkout
// reserves all-or-nothing.
func (s *ReservationService) Hold(ctx context.Context, checkoutRef string, lines []HoldLine) ([]ReservationResponse, error) {
	if checkoutRef == "" {
		return nil, shared.NewDomainError("INVALID_CHECKOUT_REF", "Checkout reference cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_LINES", "Hold requires at least one line")
	}

	reservations := make([]*inventory.StockReservation, 0, len(lines))
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range lines {
			reservation, err := inventory.NewStockReservation(checkoutRef, line.VariantID, line.Quantity, s.ttl)
			if err != nil {
				return err
			}

			// The guarded update is the oversell gate. A failure here
			// rolls back every hold already taken in this call.
			if err := repos.VariantRepo().RemoveStockGuarded(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}

			holdTx, err := inventory.NewHoldTransaction(line.VariantID, line.Quantity, reservation.ID, checkoutRef)
			if err != nil {
				return err
			}
			if err := repos.LedgerRepo().Create(ctx, holdTx); err != nil {
				return err
			}
			if err := repos.ReservationRepo().Create(ctx, reservation); err != nil {
				return err
			}

			reservations = append(reservations, reservation)
		}
		return nil
	})
	if err != nil {
		s.logger.Info("hold rejected",
			zap.String("checkout_ref", checkoutRef),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return nil, err
	}

	responses := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		s.publish(ctx, inventory.NewStockHeldEvent(r))
		responses = append(responses, ToReservationResponse(r))
	}
	return responses, nil
}

// Release cancels a held reservation and returns its stock. Safe to
// call on an already settled reservation; that is reported as a no-op.
func (s *ReservationService) Release(ctx context.Context, reservationID uuid.UUID) error {
	return s.release(ctx, reservationID, false)
}

// ReleaseExpired releases a reservation found past its TTL by the sweep
func (s *ReservationService) ReleaseExpired(ctx context.Context, reservationID uuid.UUID) error {
	return s.release(ctx, reservationID, true)
}

func (s *ReservationService) release(ctx context.Context, reservationID uuid.UUID, expired bool) error {
	var released *inventory.StockReservation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		reservation, err := repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if !reservation.IsActive() {
			// Already settled by a concurrent caller
			return nil
		}

		// The guarded flip decides the race against a concurrent
		// consume, sweep or double release. Losing it means the stock
		// was settled elsewhere and must not be added back here.
		won, err := repos.ReservationRepo().Settle(ctx, reservationID,
			inventory.ReservationStatusHeld, inventory.ReservationStatusReleased)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}

		if err := repos.VariantRepo().AddStock(ctx, reservation.VariantID, reservation.Quantity); err != nil {
			return err
		}
		releaseTx, err := inventory.NewReleaseTransaction(reservation.VariantID, reservation.Quantity, reservation.ID, reservation.CheckoutRef)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo().Create(ctx, releaseTx); err != nil {
			return err
		}

		_ = reservation.Release()
		released = reservation
		return nil
	})
	if err != nil {
		return err
	}

	if released != nil {
		s.publish(ctx, inventory.NewReservationReleasedEvent(released, expired))
	}
	return nil
}

// Consume settles a held reservation against a paid order. Stock is not
// touched; it was already removed when the hold was taken, so the same
// units can never be decremented twice.
func (s *ReservationService) Consume(ctx context.Context, reservationID uuid.UUID, orderRef string) error {
	var consumed *inventory.StockReservation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		reservation, err := repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status == inventory.ReservationStatusConsumed {
			// Webhook redelivery; the first delivery already settled it
			return nil
		}
		if reservation.Status == inventory.ReservationStatusReleased {
			return shared.ErrInvalidState
		}

		won, err := repos.ReservationRepo().Settle(ctx, reservationID,
			inventory.ReservationStatusHeld, inventory.ReservationStatusConsumed)
		if err != nil {
			return err
		}
		if !won {
			// A concurrent settle got there first; re-read to tell a
			// redelivered consume from a release that restocked.
			current, err := repos.ReservationRepo().FindByID(ctx, reservationID)
			if err != nil {
				return err
			}
			if current.Status == inventory.ReservationStatusConsumed {
				return nil
			}
			return shared.ErrInvalidState
		}

		_ = reservation.Consume()
		consumed = reservation
		return nil
	})
	if err != nil {
		return err
	}

	if consumed != nil {
		s.publish(ctx, inventory.NewReservationConsumedEvent(consumed, orderRef))
	}
	return nil
}

// ConsumeByCheckoutRef consumes every held reservation of a checkout
// against a paid order. The returned map holds the variant quantities
// that were settled through holds; a line absent from it no longer has
// a live hold and must be decremented directly by the caller.
func (s *ReservationService) ConsumeByCheckoutRef(ctx context.Context, checkoutRef, orderRef string) (map[uuid.UUID]int64, error) {
	reservations, err := s.reservationRepo.FindActiveByCheckoutRef(ctx, checkoutRef)
	if err != nil {
		return nil, err
	}

	settled := make(map[uuid.UUID]int64, len(reservations))
	for i := range reservations {
		if err := s.Consume(ctx, reservations[i].ID, orderRef); err != nil {
			if errors.Is(err, shared.ErrInvalidState) || errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		settled[reservations[i].VariantID] += reservations[i].Quantity
	}
	return settled, nil
}

// ReleaseByCheckoutRef releases every held reservation of a checkout.
// Used when the gateway reports the payment failed or expired.
func (s *ReservationService) ReleaseByCheckoutRef(ctx context.Context, checkoutRef string) error {
	reservations, err := s.reservationRepo.FindActiveByCheckoutRef(ctx, checkoutRef)
	if err != nil {
		return err
	}
	for i := range reservations {
		if err := s.Release(ctx, reservations[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReservationService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
