package hotel

import "context"

type Repository interface {
	CreateHotel(ctx context.Context, name, city, address string) (*Hotel, error)
	GetHotelByID(ctx context.Context, id int) (*Hotel, error)
	GetAllHotels(ctx context.Context) ([]Hotel, error)
	CreateRoom(ctx context.Context, hotelID int, name string, capacity int, priceCents int64) (*Room, error)
	GetRoomByID(ctx context.Context, id int) (*Room, error)
	GetRoomsByHotel(ctx context.Context, hotelID int) ([]Room, error)
}
