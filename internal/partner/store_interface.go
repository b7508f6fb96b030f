package partner

import (
	"context"
	"time"
)

// ActionStore is the durable local queue of pending actions, keyed by
// action id with a secondary index by booking id.
type ActionStore interface {
	Enqueue(ctx context.Context, a PendingAction) error
	Pending(ctx context.Context) ([]PendingAction, error)
	PendingForBooking(ctx context.Context, bookingID int) ([]PendingAction, error)
	Remove(ctx context.Context, a PendingAction) error
	RecordConflict(ctx context.Context, c SyncConflict) error
	Conflicts(ctx context.Context) ([]SyncConflict, error)
}

// BookingCache is the durable local snapshot of server bookings. It is
// overwritten wholesale on every successful refresh.
type BookingCache interface {
	ReplaceAll(ctx context.Context, bookings []CachedBooking, syncedAt time.Time) error
	All(ctx context.Context) ([]CachedBooking, error)
	Get(ctx context.Context, bookingID int) (*CachedBooking, bool, error)
	SyncedAt(ctx context.Context) (time.Time, error)
}
