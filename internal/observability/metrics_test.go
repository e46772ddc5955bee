package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/config"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/shipments", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/shipments", "GET", 200, 30*time.Millisecond)
	m.RecordError("/shipments/:id/status", "PATCH", "FORBIDDEN")
	m.RecordJob("status-updater", "ok")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/shipments|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMsec["/shipments|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/shipments/:id/status|PATCH|FORBIDDEN"])
	assert.Equal(t, int64(1), snap.JobRuns["status-updater|ok"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordJob("j", "ok")

	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestMetrics_CountsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestMetrics(m))
	app.Get("/shipments/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/shipments/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, int64(1), m.Snapshot().Requests["/shipments/:id|GET|204"])
}

func TestNewLogger_FallsBackOnBadLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "verbose"}, config.AppConfig{Env: "production", Name: "shipment-service"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
