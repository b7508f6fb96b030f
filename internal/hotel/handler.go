package hotel

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// CreateHotel godoc
// @Summary      Create hotel
// @Tags         hotels
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateHotelRequest true "Hotel"
// @Success      201 {object} Hotel
// @Router       /admin/hotels [post]
func (h *Handler) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hotel, err := h.repo.CreateHotel(c.Request.Context(), req.Name, req.City, req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hotel"})
		return
	}

	c.JSON(http.StatusCreated, hotel)
}

// ListHotels godoc
// @Summary      List hotels
// @Tags         hotels
// @Produce      json
// @Success      200 {array} Hotel
// @Router       /hotels [get]
func (h *Handler) ListHotels(c *gin.Context) {
	hotels, err := h.repo.GetAllHotels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotels"})
		return
	}

	c.JSON(http.StatusOK, hotels)
}

// GetHotel godoc
// @Summary      Get hotel
// @Tags         hotels
// @Produce      json
// @Param        hotelID path int true "Hotel ID"
// @Success      200 {object} Hotel
// @Router       /hotels/{hotelID} [get]
func (h *Handler) GetHotel(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("hotelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	hotel, err := h.repo.GetHotelByID(c.Request.Context(), hotelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}

	c.JSON(http.StatusOK, hotel)
}

// CreateRoom godoc
// @Summary      Create room
// @Tags         hotels
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        hotelID path int true "Hotel ID"
// @Param        body body CreateRoomRequest true "Room"
// @Success      201 {object} Room
// @Router       /admin/hotels/{hotelID}/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("hotelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.repo.GetHotelByID(c.Request.Context(), hotelID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}

	room, err := h.repo.CreateRoom(c.Request.Context(), hotelID, req.Name, req.Capacity, req.PricePerNightCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary      List rooms
// @Tags         hotels
// @Produce      json
// @Param        hotelID path int true "Hotel ID"
// @Success      200 {array} Room
// @Router       /hotels/{hotelID}/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("hotelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	rooms, err := h.repo.GetRoomsByHotel(c.Request.Context(), hotelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}
