package hotel

import "time"

type Hotel struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Room struct {
	ID                 int       `db:"id" json:"id"`
	HotelID            int       `db:"hotel_id" json:"hotel_id"`
	Name               string    `db:"name" json:"name"`
	Capacity           int       `db:"capacity" json:"capacity"`
	PricePerNightCents int64     `db:"price_per_night_cents" json:"price_per_night_cents"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type CreateHotelRequest struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Address string `json:"address"`
}

type CreateRoomRequest struct {
	Name               string `json:"name" binding:"required"`
	Capacity           int    `json:"capacity" binding:"required,gte=1"`
	PricePerNightCents int64  `json:"price_per_night_cents" binding:"required,gte=0"`
}
