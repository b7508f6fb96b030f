package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetHotelBookingsForDate(ctx context.Context, hotelID int, date time.Time) ([]BookingWithDetails, error)
	UpdateStatus(ctx context.Context, id int, expected Status, patch StatusPatch) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id int, expected Status, patch StatusPatch) (bool, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	CancelExpired(ctx context.Context, id int, now time.Time) (bool, error)
}
