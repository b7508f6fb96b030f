package partner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorFiresHandlersOnReconnect(t *testing.T) {
	monitor := NewMonitor()

	fired := 0
	monitor.OnOnline(func(ctx context.Context) { fired++ })

	ctx := context.Background()

	monitor.SetOnline(ctx, true)
	assert.Equal(t, 1, fired)

	// Staying online does not re-fire.
	monitor.SetOnline(ctx, true)
	assert.Equal(t, 1, fired)

	// Going offline does not fire.
	monitor.SetOnline(ctx, false)
	assert.Equal(t, 1, fired)
	assert.False(t, monitor.IsOnline())

	// Every offline-to-online transition fires again.
	monitor.SetOnline(ctx, true)
	assert.Equal(t, 2, fired)
	assert.True(t, monitor.IsOnline())
}

func TestMonitorHandlersRunInRegistrationOrder(t *testing.T) {
	monitor := NewMonitor()

	var order []string
	monitor.OnOnline(func(ctx context.Context) { order = append(order, "sync") })
	monitor.OnOnline(func(ctx context.Context) { order = append(order, "refresh") })

	monitor.SetOnline(context.Background(), true)
	assert.Equal(t, []string{"sync", "refresh"}, order)
}
