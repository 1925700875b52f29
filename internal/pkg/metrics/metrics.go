package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Reasons a ring is dropped by the ring processor.
const (
	ReasonOutsideBoundingBox = "outside_bbox"
	ReasonBelowThreshold     = "below_threshold"
	ReasonOffsetCollapsed    = "offset_collapsed"
)

// Outcomes of filling one coverage classification.
const (
	ResultFilled  = "filled"
	ResultSkipped = "skipped"
	ResultEmpty   = "empty"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coverage",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coverage",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 7),
	}, []string{"method", "path"})

	// Pipeline metrics
	RingsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "pipeline",
		Name:      "rings_dropped_total",
		Help:      "Rings discarded by the simplification pipeline",
	}, []string{"reason"})

	RingsDegenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "pipeline",
		Name:      "rings_degenerated_total",
		Help:      "Rings replaced by their bounding box after over-simplification",
	})

	PointsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "pipeline",
		Name:      "points_removed_total",
		Help:      "Coordinates removed by Douglas-Peucker simplification",
	})

	PolygonsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "pipeline",
		Name:      "polygons_dropped_total",
		Help:      "Polygons dropped because their outer ring did not survive",
	})

	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "filler",
		Name:      "classifications_total",
		Help:      "Coverage classifications visited by the filler",
	}, []string{"result"})

	// Boundary dataset metrics
	BoundaryDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "boundaries",
		Name:      "downloads_total",
		Help:      "Boundary dataset download attempts",
	}, []string{"dataset", "status"})

	BoundaryLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "boundaries",
		Name:      "lookups_total",
		Help:      "Region code lookups against boundary datasets",
	}, []string{"dataset", "result"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Assembled region geometry served from cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coverage",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Assembled region geometry computed because it was not cached",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coverage",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coverage",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coverage",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// route pattern keeps feature names out of the label set
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool gauges from pgx pool stats
// without importing pgxpool here.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
