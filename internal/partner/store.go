package partner

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys for the terminal's local state. The partner device runs its
// own Redis instance, so queued actions and cached bookings survive app
// restarts.
const (
	actionsKey        = "partner:actions"
	actionsPendingKey = "partner:actions:pending"
	actionsByBooking  = "partner:actions:booking:"
	bookingsKey       = "partner:bookings"
	bookingsSyncedKey = "partner:bookings:synced_at"
	conflictsKey      = "partner:conflicts"
)

// Store implements both ActionStore and BookingCache on a local Redis.
type Store struct {
	redis *redis.Client
}

func NewStore(redisAddr string) *Store {
	return &Store{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// NewStoreWithClient is used by tests to inject a mock client.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{redis: client}
}

func (s *Store) Enqueue(ctx context.Context, a PendingAction) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, actionsKey, a.ID, data)
	pipe.ZAdd(ctx, actionsPendingKey, redis.Z{
		Score:  float64(a.CreatedAt.UnixNano()),
		Member: a.ID,
	})
	pipe.SAdd(ctx, actionsByBooking+strconv.Itoa(a.BookingID), a.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// Pending returns unsynced actions oldest first. Ordering matters: a
// check-out must never be submitted before its check-in is acknowledged.
func (s *Store) Pending(ctx context.Context) ([]PendingAction, error) {
	ids, err := s.redis.ZRange(ctx, actionsPendingKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []PendingAction{}, nil
	}

	raw, err := s.redis.HMGet(ctx, actionsKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	actions := make([]PendingAction, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var a PendingAction
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			continue
		}
		actions = append(actions, a)
	}

	return actions, nil
}

func (s *Store) PendingForBooking(ctx context.Context, bookingID int) ([]PendingAction, error) {
	ids, err := s.redis.SMembers(ctx, actionsByBooking+strconv.Itoa(bookingID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []PendingAction{}, nil
	}

	raw, err := s.redis.HMGet(ctx, actionsKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	actions := make([]PendingAction, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var a PendingAction
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			continue
		}
		actions = append(actions, a)
	}

	return actions, nil
}

func (s *Store) Remove(ctx context.Context, a PendingAction) error {
	pipe := s.redis.TxPipeline()
	pipe.HDel(ctx, actionsKey, a.ID)
	pipe.ZRem(ctx, actionsPendingKey, a.ID)
	pipe.SRem(ctx, actionsByBooking+strconv.Itoa(a.BookingID), a.ID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) RecordConflict(ctx context.Context, c SyncConflict) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.redis.LPush(ctx, conflictsKey, data).Err()
}

func (s *Store) Conflicts(ctx context.Context) ([]SyncConflict, error) {
	raw, err := s.redis.LRange(ctx, conflictsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	conflicts := make([]SyncConflict, 0, len(raw))
	for _, v := range raw {
		var c SyncConflict
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			continue
		}
		conflicts = append(conflicts, c)
	}

	return conflicts, nil
}

func (s *Store) ReplaceAll(ctx context.Context, bookings []CachedBooking, syncedAt time.Time) error {
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, bookingsKey)
	for _, b := range bookings {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, bookingsKey, strconv.Itoa(b.ID), data)
	}
	pipe.Set(ctx, bookingsSyncedKey, syncedAt.Format(time.RFC3339Nano), 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) All(ctx context.Context) ([]CachedBooking, error) {
	raw, err := s.redis.HGetAll(ctx, bookingsKey).Result()
	if err != nil {
		return nil, err
	}

	bookings := make([]CachedBooking, 0, len(raw))
	for _, v := range raw {
		var b CachedBooking
		if err := json.Unmarshal([]byte(v), &b); err != nil {
			continue
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (s *Store) Get(ctx context.Context, bookingID int) (*CachedBooking, bool, error) {
	raw, err := s.redis.HGet(ctx, bookingsKey, strconv.Itoa(bookingID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var b CachedBooking
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, false, err
	}

	return &b, true, nil
}

func (s *Store) SyncedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.redis.Get(ctx, bookingsSyncedKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, raw)
}

func (s *Store) Close() error {
	return s.redis.Close()
}
