package booking

import "time"

// ExpiredHoldReason is stamped on bookings the sweeper cancels.
const ExpiredHoldReason = "payment window expired"

// RefundPolicy decides refund eligibility for a cancellation. The cutoff
// and percentages come from configuration; operations tune them per market.
type RefundPolicy struct {
	LateCancelWindow   time.Duration
	LateRefundPercent  int
	EarlyRefundPercent int
}

// IsLate reports whether a cancellation at now falls inside the late window
// before check-in. Cancellations after check-in time are always late.
func (p RefundPolicy) IsLate(checkIn, now time.Time) bool {
	return checkIn.Sub(now) < p.LateCancelWindow
}

// RefundAmount computes the refundable amount for money actually captured.
func (p RefundPolicy) RefundAmount(capturedCents int64, late bool) int64 {
	if capturedCents <= 0 {
		return 0
	}
	percent := p.EarlyRefundPercent
	if late {
		percent = p.LateRefundPercent
	}
	if percent <= 0 {
		return 0
	}
	if percent > 100 {
		percent = 100
	}
	return capturedCents * int64(percent) / 100
}

// CapturedAmount returns the money actually taken for a booking: the full
// amount when payment completed, the booking fee when only the hold was
// paid, zero otherwise. Unpaid holds are never refundable.
func CapturedAmount(b Booking) int64 {
	switch {
	case b.PaymentStatus == PaymentPaid:
		return b.TotalAmountCents
	case b.BookingFeeStatus == FeePaid:
		return b.BookingFeeCents
	default:
		return 0
	}
}
