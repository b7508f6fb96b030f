package hotel

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateHotel(ctx context.Context, name, city, address string) (*Hotel, error) {
	query := `
		INSERT INTO hotels (name, city, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, city, address, created_at
	`

	var h Hotel
	err := r.db.GetContext(ctx, &h, query, name, city, address)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

func (r *repository) GetHotelByID(ctx context.Context, id int) (*Hotel, error) {
	query := `
		SELECT id, name, city, address, created_at
		FROM hotels
		WHERE id = $1
	`

	var h Hotel
	err := r.db.GetContext(ctx, &h, query, id)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

func (r *repository) GetAllHotels(ctx context.Context) ([]Hotel, error) {
	query := `
		SELECT id, name, city, address, created_at
		FROM hotels
		ORDER BY name
	`

	var hotels []Hotel
	err := r.db.SelectContext(ctx, &hotels, query)
	if err != nil {
		return nil, err
	}

	return hotels, nil
}

func (r *repository) CreateRoom(ctx context.Context, hotelID int, name string, capacity int, priceCents int64) (*Room, error) {
	query := `
		INSERT INTO rooms (hotel_id, name, capacity, price_per_night_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, hotel_id, name, capacity, price_per_night_cents, created_at
	`

	var room Room
	err := r.db.GetContext(ctx, &room, query, hotelID, name, capacity, priceCents)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	query := `
		SELECT id, hotel_id, name, capacity, price_per_night_cents, created_at
		FROM rooms
		WHERE id = $1
	`

	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) GetRoomsByHotel(ctx context.Context, hotelID int) ([]Room, error) {
	query := `
		SELECT id, hotel_id, name, capacity, price_per_night_cents, created_at
		FROM rooms
		WHERE hotel_id = $1
		ORDER BY name
	`

	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, query, hotelID)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}
