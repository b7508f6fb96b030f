package server

import (
	"context"
	"net/http"

	"github.com/rahmatullahboss/hotel-sub006/internal/auth"
	"github.com/rahmatullahboss/hotel-sub006/internal/booking"
	"github.com/rahmatullahboss/hotel-sub006/internal/config"
	"github.com/rahmatullahboss/hotel-sub006/internal/hotel"
	"github.com/rahmatullahboss/hotel-sub006/internal/notify"
	"github.com/rahmatullahboss/hotel-sub006/internal/user"
	"github.com/rahmatullahboss/hotel-sub006/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, events *notify.Service, sweeper *booking.Sweeper, bookingService booking.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	hotelHandler := hotel.NewHandler(db)
	walletHandler := wallet.NewHandler(db)
	bookingHandler := booking.NewHandler(bookingService, sweeper, cfg.CronSecret)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	router.GET("/hotels", hotelHandler.ListHotels)
	router.GET("/hotels/:hotelID", hotelHandler.GetHotel)
	router.GET("/hotels/:hotelID/rooms", hotelHandler.ListRooms)

	// Guest checkout: bookings can be created without an account.
	router.POST("/bookings", bookingHandler.Create)
	router.POST("/bookings/:bookingID/confirm-payment", bookingHandler.ConfirmPayment)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/bookings", bookingHandler.ListMine)
		protected.GET("/bookings/:bookingID", bookingHandler.Get)
		protected.DELETE("/bookings/:bookingID", bookingHandler.Cancel)
		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
	}

	partnerMiddleware := auth.RequireRole(auth.RolePartner)
	partner := router.Group("/")
	partner.Use(authMiddleware, partnerMiddleware)
	{
		partner.POST("/bookings/:bookingID/check-in", bookingHandler.CheckIn)
		partner.POST("/bookings/:bookingID/check-out", bookingHandler.CheckOut)
		partner.GET("/partner/hotels/:hotelID/bookings/today", bookingHandler.ListHotelToday)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/hotels", hotelHandler.CreateHotel)
		admin.POST("/hotels/:hotelID/rooms", hotelHandler.CreateRoom)
	}

	// Scheduler entry point; guarded by its own bearer secret, not JWT.
	router.GET("/cron/expire-bookings", bookingHandler.ExpireBookings)

	router.GET("/health", Health)
	router.GET("/test-notify", TestNotify(events))
	router.GET("/metrics", Metrics())
	registerSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
