package booking

import (
	"context"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/metrics"
	"github.com/rahmatullahboss/hotel-sub006/internal/notify"
)

// Sweeper reclaims inventory held by abandoned bookings: pending rows whose
// payment hold lapsed are cancelled. Sweeps are idempotent, because matched
// rows leave the pending state on the first pass, and safe under
// overlapping invocations, because each write re-checks the row state.
type Sweeper struct {
	repo     Repository
	events   notify.Emitter
	batch    int
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(repo Repository, events notify.Emitter, batch int, interval time.Duration) *Sweeper {
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{
		repo:     repo,
		events:   events,
		batch:    batch,
		interval: interval,
		now:      time.Now,
	}
}

// Sweep cancels every lapsed payment hold it can and reports how many it
// cancelled. A failure on one booking never aborts the rest of the batch.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.FindExpired(ctx, now, s.batch)
	if err != nil {
		return 0, err
	}

	if len(expired) == 0 {
		return 0, nil
	}

	logger.Info("Processing expired payment holds", "count", len(expired))

	cancelled := 0
	for _, b := range expired {
		applied, err := s.repo.CancelExpired(ctx, b.ID, now)
		if err != nil {
			metrics.SweepFailuresTotal.Inc()
			logger.Errorf("Failed to expire booking %d: %v", b.ID, err)
			continue
		}
		if !applied {
			// Confirmed or cancelled between select and write; not ours.
			continue
		}

		cancelled++
		metrics.ExpiredBookingsTotal.Inc()
		metrics.RecordCancellation("expired")

		if s.events != nil {
			payload := map[string]interface{}{
				"booking_id": b.ID,
				"reference":  b.Reference,
				"reason":     ExpiredHoldReason,
			}
			if err := s.events.Emit(ctx, notify.EventBookingExpired, payload); err != nil {
				logger.Errorf("Failed to emit expiry event for booking %d: %v", b.ID, err)
			}
		}
	}

	return cancelled, nil
}

// Start runs the sweeper on a ticker until the context is cancelled. An
// external cron hitting the HTTP endpoint can coexist with this loop; the
// conditional updates make double firing harmless.
func (s *Sweeper) Start(ctx context.Context) {
	logger.Infof("Expiry sweeper started (interval %s)", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	count, err := s.Sweep(ctx, s.now())
	if err != nil {
		logger.Errorf("Expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		logger.Info("Expiry sweep finished", "cancelled", count)
	}
}
