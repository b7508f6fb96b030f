package partner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
)

// Monitor tracks the terminal's online/offline flag. Going from offline to
// online fires the registered handlers (sync then refresh); going offline
// just flips the flag and suspends refresh attempts.
type Monitor struct {
	online   atomic.Bool
	mu       sync.Mutex
	handlers []func(context.Context)
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// OnOnline registers a handler invoked on every offline-to-online
// transition, in registration order.
func (m *Monitor) OnOnline(f func(context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, f)
}

// SetOnline updates the connectivity flag. The reconnect handlers run
// synchronously so callers can observe the reconciliation result.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	was := m.online.Swap(online)
	if online == was {
		return
	}

	if online {
		logger.Info("Connectivity restored, reconciling")
		m.fire(ctx)
	} else {
		logger.Info("Connectivity lost, serving from cache")
	}
}

// Start runs a coarse periodic fallback: while online, the handlers fire
// every interval even without a connectivity event, catching anything a
// missed event or failed pass left behind.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.IsOnline() {
				m.fire(ctx)
			}
		}
	}
}

func (m *Monitor) fire(ctx context.Context) {
	m.mu.Lock()
	handlers := make([]func(context.Context), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, f := range handlers {
		f(ctx)
	}
}
