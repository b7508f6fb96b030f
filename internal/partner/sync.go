package partner

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/booking"
	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/metrics"
)

// SyncReport summarizes one reconciliation pass.
type SyncReport struct {
	Submitted int
	Discarded int
	Deferred  int
	Skipped   bool
}

// Syncer drains the offline action queue against the server. It can be
// triggered from several places at once (timer, connectivity event, manual
// refresh); a single-slot in-flight flag makes overlapping calls no-ops so
// no action is ever submitted twice concurrently.
type Syncer struct {
	store    ActionStore
	cache    BookingCache
	client   Client
	inFlight atomic.Bool
	now      func() time.Time
}

func NewSyncer(store ActionStore, cache BookingCache, client Client) *Syncer {
	return &Syncer{
		store:  store,
		cache:  cache,
		client: client,
		now:    time.Now,
	}
}

// Sync submits unsynced actions oldest first. Terminal rejections discard
// the action and surface a conflict; transient failures leave it queued
// and defer any later actions for the same booking, preserving per-booking
// order across retries.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return SyncReport{Skipped: true}, nil
	}
	defer s.inFlight.Store(false)

	actions, err := s.store.Pending(ctx)
	if err != nil {
		return SyncReport{}, err
	}

	var report SyncReport
	blocked := make(map[int]bool)

	for _, a := range actions {
		if blocked[a.BookingID] {
			report.Deferred++
			continue
		}

		if s.locallyDoomed(ctx, a) {
			// A cached terminal status is authoritative: terminal states
			// never mutate, so the server can only agree.
			s.discard(ctx, a, "booking already in a terminal state")
			report.Discarded++
			continue
		}

		err := s.client.SubmitAction(ctx, a)
		switch {
		case err == nil:
			if err := s.store.Remove(ctx, a); err != nil {
				logger.Errorf("Failed to prune synced action %s: %v", a.ID, err)
			}
			report.Submitted++
		case errors.Is(err, ErrConflict):
			s.discard(ctx, a, err.Error())
			report.Discarded++
		default:
			// Transient: keep the action for the next pass and hold back
			// later actions for the same booking.
			logger.Debug("Action submission deferred", "action_id", a.ID, "error", err)
			blocked[a.BookingID] = true
			report.Deferred++
		}
	}

	return report, nil
}

func (s *Syncer) locallyDoomed(ctx context.Context, a PendingAction) bool {
	if s.cache == nil {
		return false
	}
	cached, ok, err := s.cache.Get(ctx, a.BookingID)
	if err != nil || !ok {
		return false
	}
	return cached.Status.IsTerminal() && !booking.CanTransition(cached.Status, a.TargetStatus())
}

func (s *Syncer) discard(ctx context.Context, a PendingAction, detail string) {
	if err := s.store.Remove(ctx, a); err != nil {
		logger.Errorf("Failed to remove conflicting action %s: %v", a.ID, err)
		return
	}

	conflict := SyncConflict{
		Action:     a,
		Detail:     detail,
		OccurredAt: s.now(),
	}
	if err := s.store.RecordConflict(ctx, conflict); err != nil {
		logger.Errorf("Failed to record conflict for action %s: %v", a.ID, err)
	}

	metrics.SyncConflictsTotal.Inc()
	logger.Info("Offline action discarded after server rejection",
		"action_id", a.ID, "booking_id", a.BookingID, "detail", detail)
}
