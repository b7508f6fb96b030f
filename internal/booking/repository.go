package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrStaleStatus = errors.New("booking status changed concurrently")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `
	id, reference, user_id, hotel_id, room_id, status, payment_status,
	booking_fee_status, total_amount_cents, booking_fee_cents,
	check_in_date, check_out_date, expires_at, cancellation_reason,
	cancelled_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (
			reference, user_id, hotel_id, room_id, status, payment_status,
			booking_fee_status, total_amount_cents, booking_fee_cents,
			check_in_date, check_out_date, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + bookingColumns

	var created Booking
	err := r.db.GetContext(ctx, &created, query,
		b.Reference, b.UserID, b.HotelID, b.RoomID, b.Status,
		b.PaymentStatus, b.BookingFeeStatus, b.TotalAmountCents,
		b.BookingFeeCents, b.CheckInDate, b.CheckOutDate, b.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetHotelBookingsForDate(ctx context.Context, hotelID int, date time.Time) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.reference, b.user_id, b.hotel_id, b.room_id, b.status,
			b.payment_status, b.booking_fee_status, b.total_amount_cents,
			b.booking_fee_cents, b.check_in_date, b.check_out_date,
			b.expires_at, b.cancellation_reason, b.cancelled_at,
			b.created_at, b.updated_at,
			h.name AS hotel_name,
			rm.name AS room_name
		FROM bookings b
		JOIN hotels h ON b.hotel_id = h.id
		JOIN rooms rm ON b.room_id = rm.id
		WHERE b.hotel_id = $1
		  AND (b.check_in_date::date = $2::date OR b.check_out_date::date = $2::date)
		ORDER BY b.check_in_date, b.created_at`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, hotelID, date)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

const updateStatusQuery = `
	UPDATE bookings
	SET status = $1,
	    payment_status = $2,
	    booking_fee_status = $3,
	    expires_at = $4,
	    cancellation_reason = $5,
	    cancelled_at = $6,
	    updated_at = NOW()
	WHERE id = $7 AND status = $8`

// UpdateStatus is the optimistic-concurrency primitive: the write only
// lands when the row still holds the expected prior status. A false return
// means someone else resolved the booking first and the caller must treat
// it as a no-op, not an error.
func (r *repository) UpdateStatus(ctx context.Context, id int, expected Status, patch StatusPatch) (bool, error) {
	return applyStatusUpdate(ctx, r.db, id, expected, patch)
}

// UpdateStatusTx runs the same conditional update inside the caller's
// transaction, so a cancellation and its wallet credit commit together.
func (r *repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id int, expected Status, patch StatusPatch) (bool, error) {
	return applyStatusUpdate(ctx, tx, id, expected, patch)
}

func applyStatusUpdate(ctx context.Context, ext sqlx.ExtContext, id int, expected Status, patch StatusPatch) (bool, error) {
	result, err := ext.ExecContext(ctx, updateStatusQuery,
		patch.Status, patch.PaymentStatus, patch.BookingFeeStatus,
		patch.ExpiresAt, patch.CancellationReason, patch.CancelledAt,
		id, expected,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending'
		  AND booking_fee_status = 'pending'
		  AND expires_at IS NOT NULL
		  AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, now, limit)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// CancelExpired cancels one lapsed payment hold. The predicate re-checks
// status and fee state at write time, so a booking confirmed between the
// sweep's select and this write is left alone.
func (r *repository) CancelExpired(ctx context.Context, id int, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled',
		    cancellation_reason = $1,
		    cancelled_at = $2,
		    expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $3
		  AND status = 'pending'
		  AND booking_fee_status = 'pending'
		  AND expires_at IS NOT NULL
		  AND expires_at < $2`

	result, err := r.db.ExecContext(ctx, query, ExpiredHoldReason, now, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
