package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestGinMiddlewareRecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/api/stock/:name", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stock/bolt", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, m)
	require.Contains(t, body, `shopledger_http_requests_total{code="418",method="GET",route="/api/stock/:name"} 1`)
	require.Contains(t, body, `shopledger_http_request_duration_seconds_bucket{route="/api/stock/:name"`)
}

func TestDomainCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveEvent("ADD_STOCK", true, 3)
	m.ObserveEvent("ADD_STOCK", false, 3)
	m.ObserveSignal("stock.low")
	m.ObserveSnapshotSave(time.Millisecond, nil)
	m.ObserveSnapshotSave(time.Millisecond, errors.New("down"))

	body := scrape(t, m)
	require.Contains(t, body, `shopledger_events_total{applied="true",kind="ADD_STOCK"} 1`)
	require.Contains(t, body, `shopledger_events_total{applied="false",kind="ADD_STOCK"} 1`)
	require.Contains(t, body, `shopledger_signals_total{type="stock.low"} 1`)
	require.Contains(t, body, `shopledger_snapshot_saves_total{result="error"} 1`)
	require.Contains(t, body, `shopledger_state_version 3`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEvent("ADD_STOCK", true, 1)
	m.ObserveSignal("x")
	m.ObserveSnapshotSave(0, nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
