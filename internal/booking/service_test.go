package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/hotel"
	"github.com/rahmatullahboss/hotel-sub006/internal/wallet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) GetHotelBookingsForDate(ctx context.Context, hotelID int, date time.Time) ([]BookingWithDetails, error) {
	args := m.Called(ctx, hotelID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, expected Status, patch StatusPatch) (bool, error) {
	args := m.Called(ctx, id, expected, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id int, expected Status, patch StatusPatch) (bool, error) {
	args := m.Called(ctx, tx, id, expected, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) CancelExpired(ctx context.Context, id int, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

// MockHotelRepository is a mock implementation of hotel.Repository
type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) CreateHotel(ctx context.Context, name, city, address string) (*hotel.Hotel, error) {
	args := m.Called(ctx, name, city, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetHotelByID(ctx context.Context, id int) (*hotel.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetAllHotels(ctx context.Context) ([]hotel.Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hotel.Hotel), args.Error(1)
}

func (m *MockHotelRepository) CreateRoom(ctx context.Context, hotelID int, name string, capacity int, priceCents int64) (*hotel.Room, error) {
	args := m.Called(ctx, hotelID, name, capacity, priceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Room), args.Error(1)
}

func (m *MockHotelRepository) GetRoomByID(ctx context.Context, id int) (*hotel.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Room), args.Error(1)
}

func (m *MockHotelRepository) GetRoomsByHotel(ctx context.Context, hotelID int) ([]hotel.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hotel.Room), args.Error(1)
}

// MockWalletRepository is a mock implementation of wallet.Repository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreateWallet(ctx context.Context, userID int) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AddTransaction(ctx context.Context, userID int, amountCents int64, txType string) error {
	args := m.Called(ctx, userID, amountCents, txType)
	return args.Error(0)
}

func (m *MockWalletRepository) CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType string) (int, error) {
	args := m.Called(ctx, tx, userID, amountCents, txType)
	return args.Int(0), args.Error(1)
}

func (m *MockWalletRepository) TopUp(ctx context.Context, userID int, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}

func (m *MockWalletRepository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]wallet.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

// stubEmitter records emitted events without a broker.
type stubEmitter struct {
	events []string
}

func (s *stubEmitter) Emit(ctx context.Context, eventType string, payload interface{}) error {
	s.events = append(s.events, eventType)
	return nil
}

var testPolicy = RefundPolicy{
	LateCancelWindow:   24 * time.Hour,
	LateRefundPercent:  0,
	EarlyRefundPercent: 100,
}

func newTestService(t *testing.T) (*service, *MockRepository, *MockHotelRepository, *MockWalletRepository, *stubEmitter, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := new(MockRepository)
	hotelRepo := new(MockHotelRepository)
	walletRepo := new(MockWalletRepository)
	emitter := &stubEmitter{}

	svc := NewService(sqlxDB, repo, hotelRepo, walletRepo, emitter, testPolicy, 20*time.Minute, 20).(*service)
	return svc, repo, hotelRepo, walletRepo, emitter, sqlMock
}

func TestServiceCreate(t *testing.T) {
	svc, repo, hotelRepo, _, _, _ := newTestService(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	hotelRepo.On("GetRoomByID", mock.Anything, 5).Return(&hotel.Room{
		ID:                 5,
		HotelID:            2,
		PricePerNightCents: 5000,
	}, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.Status == StatusPending &&
			b.TotalAmountCents == 10000 &&
			b.BookingFeeCents == 2000 &&
			b.ExpiresAt != nil &&
			b.ExpiresAt.Equal(now.Add(20*time.Minute))
	})).Return(&Booking{ID: 1, Status: StatusPending}, nil)

	created, err := svc.Create(context.Background(), nil, CreateBookingRequest{
		HotelID:      2,
		RoomID:       5,
		CheckInDate:  "2026-03-10",
		CheckOutDate: "2026-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	repo.AssertExpectations(t)
}

func TestServiceCreateRejectsBadDates(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	_, err := svc.Create(context.Background(), nil, CreateBookingRequest{
		HotelID:      2,
		RoomID:       5,
		CheckInDate:  "2026-03-12",
		CheckOutDate: "2026-03-10",
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = svc.Create(context.Background(), nil, CreateBookingRequest{
		HotelID:      2,
		RoomID:       5,
		CheckInDate:  "2020-01-01",
		CheckOutDate: "2020-01-02",
	})
	assert.ErrorIs(t, err, ErrCheckInPast)
}

func TestServiceConfirmPaymentLosesRaceToSweeper(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService(t)

	pending := &Booking{ID: 7, Status: StatusPending, PaymentStatus: PaymentPending, BookingFeeStatus: FeePending}
	repo.On("GetByID", mock.Anything, 7).Return(pending, nil)
	// Sweeper cancelled the hold between our read and write.
	repo.On("UpdateStatus", mock.Anything, 7, StatusPending, mock.Anything).Return(false, nil)

	_, err := svc.ConfirmPayment(context.Background(), 7)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	repo.AssertExpectations(t)
}

func TestServiceCancelUnauthorized(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService(t)

	owner := 10
	repo.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, UserID: &owner, Status: StatusConfirmed}, nil)

	_, err := svc.Cancel(context.Background(), 1, 99, "changed plans")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServiceCancelNotCancellable(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService(t)

	owner := 10
	repo.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, UserID: &owner, Status: StatusCheckedIn}, nil)

	_, err := svc.Cancel(context.Background(), 1, 10, "")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestServiceCancelEarlyPaidRefundsWallet(t *testing.T) {
	svc, repo, _, walletRepo, emitter, sqlMock := newTestService(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	owner := 10
	b := &Booking{
		ID:               1,
		UserID:           &owner,
		Status:           StatusConfirmed,
		PaymentStatus:    PaymentPaid,
		BookingFeeStatus: FeePaid,
		TotalAmountCents: 10000,
		BookingFeeCents:  2000,
		CheckInDate:      now.Add(72 * time.Hour),
	}
	repo.On("GetByID", mock.Anything, 1).Return(b, nil)

	sqlMock.ExpectBegin()
	repo.On("UpdateStatusTx", mock.Anything, mock.Anything, 1, StatusConfirmed, mock.MatchedBy(func(p StatusPatch) bool {
		return p.Status == StatusCancelled && p.PaymentStatus == PaymentRefunded && p.CancelledAt != nil
	})).Return(true, nil)
	walletRepo.On("CreditTx", mock.Anything, mock.Anything, 10, int64(10000), wallet.TypeBookingRefund).Return(1, nil)
	sqlMock.ExpectCommit()

	result, err := svc.Cancel(context.Background(), 1, 10, "changed plans")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.RefundAmountCents)
	assert.False(t, result.IsLate)

	walletRepo.AssertExpectations(t)
	repo.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	assert.NotEmpty(t, emitter.events)
}

func TestServiceCancelLatePaidRefundsNothing(t *testing.T) {
	svc, repo, _, walletRepo, _, sqlMock := newTestService(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	owner := 10
	b := &Booking{
		ID:               1,
		UserID:           &owner,
		Status:           StatusConfirmed,
		PaymentStatus:    PaymentPaid,
		BookingFeeStatus: FeePaid,
		TotalAmountCents: 10000,
		BookingFeeCents:  2000,
		CheckInDate:      now.Add(3 * time.Hour),
	}
	repo.On("GetByID", mock.Anything, 1).Return(b, nil)

	sqlMock.ExpectBegin()
	repo.On("UpdateStatusTx", mock.Anything, mock.Anything, 1, StatusConfirmed, mock.MatchedBy(func(p StatusPatch) bool {
		// No refund, so payment stays captured.
		return p.Status == StatusCancelled && p.PaymentStatus == PaymentPaid
	})).Return(true, nil)
	sqlMock.ExpectCommit()

	result, err := svc.Cancel(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.RefundAmountCents)
	assert.True(t, result.IsLate)

	walletRepo.AssertNotCalled(t, "CreditTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceCancelUnpaidHoldRefundsNothing(t *testing.T) {
	svc, repo, _, walletRepo, _, sqlMock := newTestService(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	owner := 10
	expires := now.Add(10 * time.Minute)
	b := &Booking{
		ID:               1,
		UserID:           &owner,
		Status:           StatusPending,
		PaymentStatus:    PaymentPending,
		BookingFeeStatus: FeePending,
		TotalAmountCents: 10000,
		BookingFeeCents:  2000,
		CheckInDate:      now.Add(72 * time.Hour),
		ExpiresAt:        &expires,
	}
	repo.On("GetByID", mock.Anything, 1).Return(b, nil)

	sqlMock.ExpectBegin()
	repo.On("UpdateStatusTx", mock.Anything, mock.Anything, 1, StatusPending, mock.Anything).Return(true, nil)
	sqlMock.ExpectCommit()

	result, err := svc.Cancel(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.RefundAmountCents)

	walletRepo.AssertNotCalled(t, "CreditTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceCancelRolledBackOnWalletFailure(t *testing.T) {
	svc, repo, _, walletRepo, _, sqlMock := newTestService(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	owner := 10
	b := &Booking{
		ID:               1,
		UserID:           &owner,
		Status:           StatusConfirmed,
		PaymentStatus:    PaymentPaid,
		BookingFeeStatus: FeePaid,
		TotalAmountCents: 10000,
		CheckInDate:      now.Add(72 * time.Hour),
	}
	repo.On("GetByID", mock.Anything, 1).Return(b, nil)

	sqlMock.ExpectBegin()
	repo.On("UpdateStatusTx", mock.Anything, mock.Anything, 1, StatusConfirmed, mock.Anything).Return(true, nil)
	walletRepo.On("CreditTx", mock.Anything, mock.Anything, 10, int64(10000), wallet.TypeBookingRefund).
		Return(0, errors.New("wallet unavailable"))
	sqlMock.ExpectRollback()

	_, err := svc.Cancel(context.Background(), 1, 10, "")
	require.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestServiceCheckInRejectsPending(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService(t)

	repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, Status: StatusPending}, nil)

	_, err := svc.CheckIn(context.Background(), 4)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestServiceCheckInRaceReportsCurrentStatus(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService(t)

	confirmed := &Booking{ID: 4, Status: StatusConfirmed}
	cancelled := &Booking{ID: 4, Status: StatusCancelled}

	repo.On("GetByID", mock.Anything, 4).Return(confirmed, nil).Once()
	repo.On("UpdateStatus", mock.Anything, 4, StatusConfirmed, mock.Anything).Return(false, nil)
	repo.On("GetByID", mock.Anything, 4).Return(cancelled, nil).Once()

	_, err := svc.CheckIn(context.Background(), 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cancelled")
}
