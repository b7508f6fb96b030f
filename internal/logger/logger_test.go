package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, InfoLogger)
	assert.NotNil(t, ErrorLogger)
	assert.NotNil(t, DebugLogger)
}

func TestInfoWithFields(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Info("booking cancelled", "booking_id", 42, "refund_cents", 10000)

	output := buf.String()
	assert.Contains(t, output, "booking cancelled")
	assert.Contains(t, output, "booking_id=42")
	assert.Contains(t, output, "refund_cents=10000")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Errorf("sweep failed: %v", "connection refused")

	assert.Contains(t, buf.String(), "sweep failed: connection refused")
}

func TestFormatKV(t *testing.T) {
	assert.Equal(t, "msg", formatKV("msg"))
	assert.Equal(t, "msg key=1", formatKV("msg", "key", 1))
	// Odd trailing value is appended bare rather than dropped.
	assert.Equal(t, "msg key=1 stray", formatKV("msg", "key", 1, "stray"))
}
