package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rahmatullahboss/hotel-sub006/docs"

	"github.com/rahmatullahboss/hotel-sub006/internal/booking"
	"github.com/rahmatullahboss/hotel-sub006/internal/config"
	"github.com/rahmatullahboss/hotel-sub006/internal/db"
	"github.com/rahmatullahboss/hotel-sub006/internal/hotel"
	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/notify"
	"github.com/rahmatullahboss/hotel-sub006/internal/server"
	"github.com/rahmatullahboss/hotel-sub006/internal/wallet"
)

// @title HotelSub API
// @version 1.0
// @description API for hotel room booking platform.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting HotelSub application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	events := notify.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer events.Close()
	logger.Info("Notification service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go events.Start(ctx)

	bookingRepo := booking.NewRepository(database)
	hotelRepo := hotel.NewRepository(database)
	walletRepo := wallet.NewRepository(database)

	policy := booking.RefundPolicy{
		LateCancelWindow:   cfg.LateCancelWindow,
		LateRefundPercent:  cfg.LateRefundPercent,
		EarlyRefundPercent: cfg.EarlyRefundPercent,
	}
	bookingService := booking.NewService(
		database,
		bookingRepo,
		hotelRepo,
		walletRepo,
		events,
		policy,
		cfg.PaymentHoldWindow,
		cfg.BookingFeePercent,
	)

	sweeper := booking.NewSweeper(bookingRepo, events, cfg.SweepBatch, cfg.SweepInterval)
	go sweeper.Start(ctx)
	logger.Info("Expiry sweeper started", "interval", cfg.SweepInterval.String())

	srv := server.New(database, cfg, events, sweeper, bookingService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
