package partner

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rahmatullahboss/hotel-sub006/internal/api"

	"github.com/gin-gonic/gin"
)

// Handler serves the terminal's local HTTP surface. Every endpoint answers
// from the local store, so the front desk keeps working offline.
type Handler struct {
	queue   *Queue
	cache   *Cache
	syncer  *Syncer
	store   ActionStore
	monitor *Monitor
}

func NewHandler(queue *Queue, cache *Cache, syncer *Syncer, store ActionStore, monitor *Monitor) *Handler {
	return &Handler{
		queue:   queue,
		cache:   cache,
		syncer:  syncer,
		store:   store,
		monitor: monitor,
	}
}

// Router builds the local terminal router.
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/bookings/today", h.ListToday)
	r.GET("/bookings", h.ListCached)
	r.POST("/bookings/:bookingID/check-in", h.CheckIn)
	r.POST("/bookings/:bookingID/check-out", h.CheckOut)
	r.GET("/pending", h.ListPending)
	r.GET("/conflicts", h.ListConflicts)
	r.POST("/sync", h.TriggerSync)
	r.GET("/status", h.Status)

	return r
}

func (h *Handler) ListToday(c *gin.Context) {
	bookings, err := h.cache.GetToday(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read cache"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) ListCached(c *gin.Context) {
	bookings, err := h.cache.GetCached(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read cache"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.enqueue(c, ActionCheckIn)
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.enqueue(c, ActionCheckOut)
}

func (h *Handler) enqueue(c *gin.Context, kind ActionKind) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid booking id"})
		return
	}

	action, err := h.queue.Add(c.Request.Context(), bookingID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to queue action"})
		return
	}

	// Push immediately when online; otherwise the action waits for the
	// next reconnect.
	synced := false
	if h.monitor != nil && h.monitor.IsOnline() {
		report, err := h.syncer.Sync(c.Request.Context())
		if err == nil && !report.Skipped {
			synced = h.actionAccepted(c.Request.Context(), action)
		}
	}

	c.JSON(http.StatusAccepted, gin.H{"action": action, "synced": synced})
}

// actionAccepted reports whether the sync pass actually landed this action
// on the server. A pass can finish cleanly while leaving the action queued
// (transient failure) or discarding it as a conflict; neither counts.
func (h *Handler) actionAccepted(ctx context.Context, a PendingAction) bool {
	pending, err := h.store.PendingForBooking(ctx, a.BookingID)
	if err != nil {
		return false
	}
	for _, p := range pending {
		if p.ID == a.ID {
			return false
		}
	}

	conflicts, err := h.store.Conflicts(ctx)
	if err != nil {
		return false
	}
	for _, conflict := range conflicts {
		if conflict.Action.ID == a.ID {
			return false
		}
	}

	return true
}

func (h *Handler) ListPending(c *gin.Context) {
	actions, err := h.store.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read queue"})
		return
	}
	c.JSON(http.StatusOK, actions)
}

func (h *Handler) ListConflicts(c *gin.Context) {
	conflicts, err := h.store.Conflicts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read conflicts"})
		return
	}
	c.JSON(http.StatusOK, conflicts)
}

func (h *Handler) TriggerSync(c *gin.Context) {
	report, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.cache.Refresh(c.Request.Context()); err != nil && !errors.Is(err, ErrOffline) {
		c.JSON(http.StatusOK, gin.H{"report": report, "refreshed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "refreshed": h.monitor == nil || h.monitor.IsOnline()})
}

func (h *Handler) Status(c *gin.Context) {
	pending, err := h.store.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read queue"})
		return
	}
	syncedAt, _ := h.cache.store.SyncedAt(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"online":         h.monitor != nil && h.monitor.IsOnline(),
		"pending_count":  len(pending),
		"last_refreshed": syncedAt,
	})
}
