package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Queue records staff intents the instant they happen. Queueing is purely
// local and never touches the network, so it works identically offline.
type Queue struct {
	store ActionStore
	now   func() time.Time
}

func NewQueue(store ActionStore) *Queue {
	return &Queue{
		store: store,
		now:   time.Now,
	}
}

// Add durably queues a check-in/out intent and returns it.
func (q *Queue) Add(ctx context.Context, bookingID int, kind ActionKind) (PendingAction, error) {
	a := PendingAction{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Kind:      kind,
		CreatedAt: q.now(),
	}

	if err := q.store.Enqueue(ctx, a); err != nil {
		return PendingAction{}, err
	}

	return a, nil
}

// Cancel removes a still-local action from the queue. Actions whose
// submission has begun are no longer cancellable; the syncer holds the
// only reference to those.
func (q *Queue) Cancel(ctx context.Context, a PendingAction) error {
	return q.store.Remove(ctx, a)
}
