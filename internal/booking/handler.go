package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    Service
	sweeper    *Sweeper
	cronSecret string
}

func NewHandler(service Service, sweeper *Sweeper, cronSecret string) *Handler {
	return &Handler{
		service:    service,
		sweeper:    sweeper,
		cronSecret: cronSecret,
	}
}

// Create godoc
// @Summary      Create booking
// @Description  Creates a pending booking with a payment hold deadline.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateBookingRequest true "Booking"
// @Success      201 {object} Booking
// @Failure      400 {object} gin.H
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Guest checkout is allowed; the booking is simply not owned by an
	// account and refunds bypass the wallet.
	var userID *int
	if id, ok := auth.GetUserID(c); ok {
		userID = &id
	}

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, ErrInvalidDates), errors.Is(err, ErrCheckInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Get godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} Booking
// @Failure      404 {object} gin.H
// @Router       /bookings/{bookingID} [get]
func (h *Handler) Get(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetUserRole(c)
	if b.UserID != nil && *b.UserID != userID && role != auth.RoleAdmin && role != auth.RolePartner {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own bookings"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListMine godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Booking
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Cancels a booking, computing refund eligibility against the
// @Description  configured late-cancellation policy.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Param        body body CancelBookingRequest false "Reason"
// @Success      200 {object} CancelBookingResponse
// @Failure      403 {object} gin.H
// @Failure      409 {object} gin.H
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.Cancel(c.Request.Context(), bookingID, userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		case errors.Is(err, ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{
		Success:           true,
		RefundAmountCents: result.RefundAmountCents,
		IsLate:            result.IsLate,
	})
}

// ConfirmPayment godoc
// @Summary      Confirm payment
// @Description  Gateway callback target; moves a pending booking to confirmed.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} Booking
// @Failure      409 {object} gin.H
// @Router       /bookings/{bookingID}/confirm-payment [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.service.ConfirmPayment(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrAlreadyResolved), errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

// CheckIn godoc
// @Summary      Check guest in
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} Booking
// @Failure      409 {object} gin.H
// @Router       /bookings/{bookingID}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	h.staffTransition(c, h.service.CheckIn)
}

// CheckOut godoc
// @Summary      Check guest out
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} Booking
// @Failure      409 {object} gin.H
// @Router       /bookings/{bookingID}/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	h.staffTransition(c, h.service.CheckOut)
}

func (h *Handler) staffTransition(c *gin.Context, op func(ctx context.Context, bookingID int) (*Booking, error)) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := op(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvariantViolation):
			// 409 tells the partner client the rejection is authoritative:
			// the queued action must be discarded, not retried.
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListHotelToday godoc
// @Summary      Today's bookings for a hotel
// @Description  Staff listing of bookings checking in or out today.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        hotelID path int true "Hotel ID"
// @Success      200 {array} BookingWithDetails
// @Router       /partner/hotels/{hotelID}/bookings/today [get]
func (h *Handler) ListHotelToday(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("hotelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	bookings, err := h.service.GetHotelBookingsForDate(c.Request.Context(), hotelID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ExpireBookings godoc
// @Summary      Run expiry sweep
// @Description  Scheduled entry point guarded by a bearer secret.
// @Tags         cron
// @Produce      json
// @Success      200 {object} SweepResponse
// @Failure      401 {object} gin.H
// @Router       /cron/expire-bookings [get]
func (h *Handler) ExpireBookings(c *gin.Context) {
	if !h.cronAuthorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron secret"})
		return
	}

	now := time.Now()
	count, err := h.sweeper.Sweep(c.Request.Context(), now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, SweepResponse{
		Success:        true,
		CancelledCount: count,
		Timestamp:      now,
	})
}

func (h *Handler) cronAuthorized(header string) bool {
	if h.cronSecret == "" {
		return false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		return false
	}
	return strings.TrimSpace(parts[1]) == h.cronSecret
}
