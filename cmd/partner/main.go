package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/config"
	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/partner"
)

// Partner front-desk terminal. Check-in and check-out keep working while
// the network is down: actions queue locally and reconcile on reconnect.
func main() {

	logger.Init()
	logger.Info("Starting partner terminal")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.PartnerHotelID == 0 {
		logger.Fatalf("PARTNER_HOTEL_ID is required")
	}

	store := partner.NewStore(cfg.RedisAddr)
	defer store.Close()

	client := partner.NewClient(cfg.APIBaseURL, cfg.PartnerToken, cfg.PartnerHotelID, cfg.HTTPTimeout)
	monitor := partner.NewMonitor()

	queue := partner.NewQueue(store)
	syncer := partner.NewSyncer(store, store, client)
	cache := partner.NewCache(store, client, monitor)
	handler := partner.NewHandler(queue, cache, syncer, store, monitor)

	monitor.OnOnline(func(ctx context.Context) {
		report, err := syncer.Sync(ctx)
		if err != nil {
			logger.Errorf("Sync pass failed: %v", err)
			return
		}
		logger.Info("Sync pass finished",
			"submitted", report.Submitted,
			"discarded", report.Discarded,
			"deferred", report.Deferred,
		)
	})
	monitor.OnOnline(func(ctx context.Context) {
		if err := cache.Refresh(ctx); err != nil {
			logger.Errorf("Cache refresh failed: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go probeConnectivity(ctx, cfg.APIBaseURL, cfg.HTTPTimeout, monitor)
	go monitor.Start(ctx, cfg.SyncInterval)

	local := &http.Server{
		Addr:    ":" + cfg.TerminalPort,
		Handler: handler.Router(),
	}
	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Terminal listening on port %s", cfg.TerminalPort)
		if err := local.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Terminal server error: %v", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := local.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during terminal shutdown: %v", err)
	}

	logger.Info("Partner terminal stopped")
}

// probeConnectivity polls the API health endpoint and flips the monitor.
func probeConnectivity(ctx context.Context, baseURL string, timeout time.Duration, monitor *partner.Monitor) {
	httpClient := &http.Client{Timeout: timeout}

	probe := func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			monitor.SetOnline(ctx, false)
			return
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			monitor.SetOnline(ctx, false)
			return
		}
		resp.Body.Close()
		monitor.SetOnline(ctx, resp.StatusCode == http.StatusOK)
	}

	probe()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
