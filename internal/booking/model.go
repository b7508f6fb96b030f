package booking

import "time"

type Booking struct {
	ID                 int           `db:"id" json:"id"`
	Reference          string        `db:"reference" json:"reference"`
	UserID             *int          `db:"user_id" json:"user_id,omitempty"`
	HotelID            int           `db:"hotel_id" json:"hotel_id"`
	RoomID             int           `db:"room_id" json:"room_id"`
	Status             Status        `db:"status" json:"status"`
	PaymentStatus      PaymentStatus `db:"payment_status" json:"payment_status"`
	BookingFeeStatus   FeeStatus     `db:"booking_fee_status" json:"booking_fee_status"`
	TotalAmountCents   int64         `db:"total_amount_cents" json:"total_amount_cents"`
	BookingFeeCents    int64         `db:"booking_fee_cents" json:"booking_fee_cents"`
	CheckInDate        time.Time     `db:"check_in_date" json:"check_in_date"`
	CheckOutDate       time.Time     `db:"check_out_date" json:"check_out_date"`
	ExpiresAt          *time.Time    `db:"expires_at" json:"expires_at,omitempty"`
	CancellationReason *string       `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingWithDetails joins hotel and room info for staff-facing listings.
type BookingWithDetails struct {
	Booking
	HotelName string `db:"hotel_name" json:"hotel_name"`
	RoomName  string `db:"room_name" json:"room_name"`
}

// StatusPatch is the write half of the conditional-update primitive: the
// full set of status-adjacent columns a transition may touch. The update
// only applies when the row still holds the expected prior status.
type StatusPatch struct {
	Status             Status
	PaymentStatus      PaymentStatus
	BookingFeeStatus   FeeStatus
	ExpiresAt          *time.Time
	CancellationReason *string
	CancelledAt        *time.Time
}

type CreateBookingRequest struct {
	HotelID      int    `json:"hotel_id" binding:"required"`
	RoomID       int    `json:"room_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type CancelBookingResponse struct {
	Success           bool  `json:"success"`
	RefundAmountCents int64 `json:"refund_amount_cents"`
	IsLate            bool  `json:"is_late"`
}

type SweepResponse struct {
	Success        bool      `json:"success"`
	CancelledCount int       `json:"cancelled_count"`
	Timestamp      time.Time `json:"timestamp"`
}
