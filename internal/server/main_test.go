package server

import (
	"os"
	"testing"

	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}
