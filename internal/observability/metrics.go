package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus registry and the collectors of this service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	signalsTotal    *prometheus.CounterVec
	snapshotSaves   *prometheus.CounterVec
	snapshotLatency prometheus.Histogram
	stateVersion    prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopledger_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_events_total",
		Help: "Dispatched ledger events by kind and whether they changed the state.",
	}, []string{"kind", "applied"})
	signals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_signals_total",
		Help: "Domain signals emitted by ledger transitions.",
	}, []string{"type"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_snapshot_saves_total",
		Help: "Snapshot mirror flushes by result.",
	}, []string{"result"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopledger_snapshot_save_duration_seconds",
		Help:    "Time spent persisting one snapshot.",
		Buckets: prometheus.DefBuckets,
	})
	version := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shopledger_state_version",
		Help: "Current version of the in-memory ledger state.",
	})
	registry.MustRegister(requests, duration, events, signals, saves, latency, version)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		eventsTotal:     events,
		signalsTotal:    signals,
		snapshotSaves:   saves,
		snapshotLatency: latency,
		stateVersion:    version,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// GinMiddleware records request count and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveEvent(kind string, applied bool, version uint64) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind, strconv.FormatBool(applied)).Inc()
	m.stateVersion.Set(float64(version))
}

func (m *Metrics) ObserveSignal(signalType string) {
	if m == nil {
		return
	}
	m.signalsTotal.WithLabelValues(signalType).Inc()
}

func (m *Metrics) ObserveSnapshotSave(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.snapshotSaves.WithLabelValues(result).Inc()
	m.snapshotLatency.Observe(d.Seconds())
}

// Registerer exposes the registry for additional collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
