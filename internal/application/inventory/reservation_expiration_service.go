package inventory

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

const (
	// DefaultSweepInterval is how often the expiry sweep runs
	DefaultSweepInterval = time.Minute
	// DefaultSweepBatchSize caps how many reservations one sweep handles
	DefaultSweepBatchSize = 200
)

// ReservationExpirationService returns abandoned holds to availability.
// Expiry is enforced by this recurring sweep, never by trusting the
// client to come back and cancel.
type ReservationExpirationService struct {
	reservationRepo inventory.StockReservationRepository
	reservations    *ReservationService
	logger          *zap.Logger
	interval        time.Duration
	batchSize       int
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	reservationRepo inventory.StockReservationRepository,
	reservations *ReservationService,
	logger *zap.Logger,
) *ReservationExpirationService {
	return &ReservationExpirationService{
		reservationRepo: reservationRepo,
		reservations:    reservations,
		logger:          logger,
		interval:        DefaultSweepInterval,
		batchSize:       DefaultSweepBatchSize,
	}
}

// SetInterval overrides the sweep interval
func (s *ReservationExpirationService) SetInterval(interval time.Duration) {
	if interval > 0 {
		s.interval = interval
	}
}

// SetBatchSize overrides how many reservations one sweep handles
func (s *ReservationExpirationService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// SweepStats contains statistics about one expiry sweep
type SweepStats struct {
	TotalExpired int       `json:"total_expired"`
	Released     int       `json:"released"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// SweepOnce finds and releases expired reservations
func (s *ReservationExpirationService) SweepOnce(ctx context.Context) (*SweepStats, error) {
	stats := &SweepStats{
		ProcessedAt: time.Now(),
	}

	expired, err := s.reservationRepo.FindExpired(ctx, time.Now(), s.batchSize)
	if err != nil {
		s.logger.Error("failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalExpired = len(expired)
	if stats.TotalExpired == 0 {
		return stats, nil
	}

	for i := range expired {
		reservation := &expired[i]
		if err := s.reservations.ReleaseExpired(ctx, reservation.ID); err != nil {
			s.logger.Error("failed to release expired reservation",
				zap.String("reservation_id", reservation.ID.String()),
				zap.String("checkout_ref", reservation.CheckoutRef),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Released++
	}

	s.logger.Info("reservation sweep completed",
		zap.Int("expired", stats.TotalExpired),
		zap.Int("released", stats.Released),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

// Run sweeps on a fixed interval until the context is cancelled.
// Intended to be started as a background goroutine by the server.
func (s *ReservationExpirationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reservation expiry sweep started",
		zap.Duration("interval", s.interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation expiry sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				// Already logged; keep sweeping on the next tick
				continue
			}
		}
	}
}
