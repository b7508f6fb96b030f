package booking

import (
	"errors"
	"fmt"
)

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePaid    FeeStatus = "paid"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvariantViolation  = errors.New("booking invariant violation")
	ErrNotCancellable      = errors.New("booking is not cancellable")
	ErrUnauthorized        = errors.New("actor does not own this booking")
	ErrBookingNotFound     = errors.New("booking not found")
)

// validTransitions defines the state machine for booking status changes.
// Terminal states have no outgoing edges.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanTransition returns true if a change from current to next is allowed.
func CanTransition(current, next Status) bool {
	allowed, exists := validTransitions[current]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == next {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can still be cancelled from this status.
func (s Status) CanBeCancelled() bool {
	return CanTransition(s, StatusCancelled)
}

// ApplyTransition returns a copy of b moved to next, or an error if the
// transition is not in the table. The machine is pure; persistence is the
// caller's job. Leaving the pending state always drops the payment hold
// deadline, since expires_at is only meaningful while the fee is unpaid.
func ApplyTransition(b Booking, next Status) (Booking, error) {
	if !b.Status.IsValid() {
		return b, fmt.Errorf("%w: unknown current status %q", ErrInvariantViolation, b.Status)
	}
	if !next.IsValid() {
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	if !CanTransition(b.Status, next) {
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	out := b
	out.Status = next
	if b.Status == StatusPending {
		out.ExpiresAt = nil
	}
	return out, nil
}
