package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
)

// Cache is the read-through snapshot of today's bookings. All reads come
// from the local store and never block on the network; Refresh is the only
// network-dependent call.
type Cache struct {
	store   BookingCache
	client  Client
	monitor *Monitor
	now     func() time.Time
}

func NewCache(store BookingCache, client Client, monitor *Monitor) *Cache {
	return &Cache{
		store:   store,
		client:  client,
		monitor: monitor,
		now:     time.Now,
	}
}

// Refresh fetches the current bookings from the source of truth and
// overwrites the local cache wholesale. Fails fast when offline.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.monitor != nil && !c.monitor.IsOnline() {
		return ErrOffline
	}

	bookings, err := c.client.FetchTodayBookings(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	syncedAt := c.now()
	cached := make([]CachedBooking, 0, len(bookings))
	for _, b := range bookings {
		cached = append(cached, CachedBooking{
			BookingWithDetails: b,
			SyncedAt:           syncedAt,
		})
	}

	if err := c.store.ReplaceAll(ctx, cached, syncedAt); err != nil {
		return err
	}

	logger.Debug("Booking cache refreshed", "count", len(cached))
	return nil
}

// GetCached serves whatever the last refresh stored.
func (c *Cache) GetCached(ctx context.Context) ([]CachedBooking, error) {
	return c.store.All(ctx)
}

// GetToday filters the cache to bookings checking in or out on today's
// calendar date.
func (c *Cache) GetToday(ctx context.Context) ([]CachedBooking, error) {
	all, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := c.now().Date()
	today := make([]CachedBooking, 0, len(all))
	for _, b := range all {
		if sameDate(b.CheckInDate, y, m, d) || sameDate(b.CheckOutDate, y, m, d) {
			today = append(today, b)
		}
	}

	return today, nil
}

// sameDate compares calendar components only. Check-in/out are date-only
// columns that decode as midnight UTC, so converting them to another zone
// would shift them off their own date; read them as stored.
func sameDate(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}
