package partner

import (
	"errors"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/booking"
)

// ActionKind is a staff intent recorded at the front desk.
type ActionKind string

const (
	ActionCheckIn  ActionKind = "check_in"
	ActionCheckOut ActionKind = "check_out"
)

var (
	// ErrOffline is returned by network-dependent calls made while the
	// terminal has no connectivity. Reads never return it.
	ErrOffline = errors.New("terminal is offline")

	// ErrConflict marks an authoritative server rejection: the action can
	// never succeed and must be discarded.
	ErrConflict = errors.New("server rejected action as conflicting")

	// ErrTransient marks a retryable failure (network, timeout, 5xx).
	ErrTransient = errors.New("transient failure")
)

// PendingAction is a locally queued, not-yet-acknowledged check-in/out
// intent. It survives process restarts until the server accepts or
// authoritatively rejects it.
type PendingAction struct {
	ID        string     `json:"id"`
	BookingID int        `json:"booking_id"`
	Kind      ActionKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
	Synced    bool       `json:"synced"`
}

// TargetStatus maps the action to the booking status it drives toward.
func (a PendingAction) TargetStatus() booking.Status {
	if a.Kind == ActionCheckOut {
		return booking.StatusCheckedOut
	}
	return booking.StatusCheckedIn
}

// CachedBooking is a point-in-time snapshot of a server booking, used to
// serve reads while offline.
type CachedBooking struct {
	booking.BookingWithDetails
	SyncedAt time.Time `json:"synced_at"`
}

// SyncConflict records an action discarded after an authoritative
// rejection, surfaced to staff as a reconciliation banner.
type SyncConflict struct {
	Action     PendingAction `json:"action"`
	Detail     string        `json:"detail"`
	OccurredAt time.Time     `json:"occurred_at"`
}
