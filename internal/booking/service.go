package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/hotel"
	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/metrics"
	"github.com/rahmatullahboss/hotel-sub006/internal/notify"
	"github.com/rahmatullahboss/hotel-sub006/internal/wallet"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrInvalidDates    = errors.New("check-out must be after check-in")
	ErrCheckInPast     = errors.New("cannot book a stay in the past")
	ErrAlreadyResolved = errors.New("booking already resolved by a concurrent operation")
)

type CancelResult struct {
	RefundAmountCents int64
	IsLate            bool
}

type Service interface {
	Create(ctx context.Context, userID *int, req CreateBookingRequest) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetHotelBookingsForDate(ctx context.Context, hotelID int, date time.Time) ([]BookingWithDetails, error)
	ConfirmPayment(ctx context.Context, bookingID int) (*Booking, error)
	Cancel(ctx context.Context, bookingID, actorUserID int, reason string) (*CancelResult, error)
	CheckIn(ctx context.Context, bookingID int) (*Booking, error)
	CheckOut(ctx context.Context, bookingID int) (*Booking, error)
}

type service struct {
	db          *sqlx.DB
	repo        Repository
	hotelRepo   hotel.Repository
	walletRepo  wallet.Repository
	events      notify.Emitter
	policy      RefundPolicy
	holdWindow  time.Duration
	feePercent  int
	now         func() time.Time
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	hotelRepo hotel.Repository,
	walletRepo wallet.Repository,
	events notify.Emitter,
	policy RefundPolicy,
	holdWindow time.Duration,
	feePercent int,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		hotelRepo:  hotelRepo,
		walletRepo: walletRepo,
		events:     events,
		policy:     policy,
		holdWindow: holdWindow,
		feePercent: feePercent,
		now:        time.Now,
	}
}

const dateLayout = "2006-01-02"

func (s *service) Create(ctx context.Context, userID *int, req CreateBookingRequest) (*Booking, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check_in_date: %w", err)
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check_out_date: %w", err)
	}

	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDates
	}
	if checkIn.Before(s.now().Truncate(24 * time.Hour)) {
		return nil, ErrCheckInPast
	}

	room, err := s.hotelRepo.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if room.HotelID != req.HotelID {
		return nil, ErrRoomNotFound
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	total := room.PricePerNightCents * nights
	fee := total * int64(s.feePercent) / 100

	expiresAt := s.now().Add(s.holdWindow)
	b := &Booking{
		Reference:        uuid.NewString(),
		UserID:           userID,
		HotelID:          req.HotelID,
		RoomID:           req.RoomID,
		Status:           StatusPending,
		PaymentStatus:    PaymentPending,
		BookingFeeStatus: FeePending,
		TotalAmountCents: total,
		BookingFeeCents:  fee,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		ExpiresAt:        &expiresAt,
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(StatusPending))
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetHotelBookingsForDate(ctx context.Context, hotelID int, date time.Time) ([]BookingWithDetails, error) {
	return s.repo.GetHotelBookingsForDate(ctx, hotelID, date)
}

// ConfirmPayment moves a pending booking to confirmed once the gateway has
// captured the money. It races against the expiry sweeper over the same
// row; the conditional update guarantees only one of them wins.
func (s *service) ConfirmPayment(ctx context.Context, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := ApplyTransition(*b, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	patch := StatusPatch{
		Status:           next.Status,
		PaymentStatus:    PaymentPaid,
		BookingFeeStatus: FeePaid,
		ExpiresAt:        nil,
	}

	applied, err := s.repo.UpdateStatus(ctx, bookingID, b.Status, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race: the sweeper or another actor resolved it first.
		return nil, ErrAlreadyResolved
	}

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(StatusConfirmed))
	s.emit(notify.EventBookingConfirmed, updated, 0, "")
	return updated, nil
}

// Cancel implements guest-facing cancellation with refund. The status
// transition, the wallet credit and the ledger row commit in a single
// transaction: partial application would violate the refund invariant.
func (s *service) Cancel(ctx context.Context, bookingID, actorUserID int, reason string) (*CancelResult, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != nil && *b.UserID != actorUserID {
		return nil, ErrUnauthorized
	}

	if !b.Status.CanBeCancelled() {
		return nil, fmt.Errorf("%w: status %s", ErrNotCancellable, b.Status)
	}

	now := s.now()
	isLate := s.policy.IsLate(b.CheckInDate, now)
	captured := CapturedAmount(*b)
	refund := s.policy.RefundAmount(captured, isLate)

	next, err := ApplyTransition(*b, StatusCancelled)
	if err != nil {
		return nil, err
	}

	paymentStatus := b.PaymentStatus
	if refund > 0 {
		paymentStatus = PaymentRefunded
	}

	cancelReason := reason
	if cancelReason == "" {
		cancelReason = "cancelled by guest"
	}

	patch := StatusPatch{
		Status:             next.Status,
		PaymentStatus:      paymentStatus,
		BookingFeeStatus:   b.BookingFeeStatus,
		ExpiresAt:          nil,
		CancellationReason: &cancelReason,
		CancelledAt:        &now,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	applied, err := s.repo.UpdateStatusTx(ctx, tx, bookingID, b.Status, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone else moved the booking between our read and write.
		return nil, fmt.Errorf("%w: booking resolved concurrently", ErrNotCancellable)
	}

	if refund > 0 {
		if b.UserID == nil {
			// Guest bookings have no wallet; refunds go back through the
			// payment gateway out of band.
			logger.Info("Guest booking refund requires gateway reversal",
				"booking_id", bookingID, "amount_cents", refund)
		} else {
			if _, err := s.walletRepo.CreditTx(ctx, tx, *b.UserID, refund, wallet.TypeBookingRefund); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordCancellation("guest")
	if refund > 0 {
		metrics.RecordRefund(refund)
	}
	s.emit(notify.EventBookingCancelled, b, refund, cancelReason)

	return &CancelResult{RefundAmountCents: refund, IsLate: isLate}, nil
}

func (s *service) CheckIn(ctx context.Context, bookingID int) (*Booking, error) {
	return s.transition(ctx, bookingID, StatusCheckedIn)
}

func (s *service) CheckOut(ctx context.Context, bookingID int) (*Booking, error) {
	return s.transition(ctx, bookingID, StatusCheckedOut)
}

func (s *service) transition(ctx context.Context, bookingID int, next Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	moved, err := ApplyTransition(*b, next)
	if err != nil {
		return nil, err
	}

	patch := StatusPatch{
		Status:             moved.Status,
		PaymentStatus:      b.PaymentStatus,
		BookingFeeStatus:   b.BookingFeeStatus,
		ExpiresAt:          moved.ExpiresAt,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
	}

	applied, err := s.repo.UpdateStatus(ctx, bookingID, b.Status, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Re-read so the error carries the real current status.
		current, rerr := s.repo.GetByID(ctx, bookingID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *service) emit(eventType string, b *Booking, refundCents int64, reason string) {
	payload := map[string]interface{}{
		"booking_id": b.ID,
		"reference":  b.Reference,
	}
	if refundCents > 0 {
		payload["refund_amount_cents"] = refundCents
	}
	if reason != "" {
		payload["reason"] = reason
	}

	if err := s.events.Emit(context.Background(), eventType, payload); err != nil {
		logger.Errorf("Failed to emit %s event for booking %d: %v", eventType, b.ID, err)
	}
}
