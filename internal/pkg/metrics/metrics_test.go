package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

type fakeStat struct{ acquired, idle, total int32 }

func (s fakeStat) AcquiredConns() int32 { return s.acquired }
func (s fakeStat) IdleConns() int32     { return s.idle }
func (s fakeStat) TotalConns() int32    { return s.total }

func TestUpdateDBPoolMetrics(t *testing.T) {
	metrics.UpdateDBPoolMetrics(fakeStat{acquired: 2, idle: 3, total: 5})

	if got := testutil.ToFloat64(metrics.DBPoolConnsOpen); got != 5 {
		t.Errorf("open = %g, want 5", got)
	}
	if got := testutil.ToFloat64(metrics.DBPoolConnsAcquired); got != 2 {
		t.Errorf("acquired = %g, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.DBPoolConnsIdle); got != 3 {
		t.Errorf("idle = %g, want 3", got)
	}
}

func TestUpdateDBPoolMetrics_IgnoresUnknown(t *testing.T) {
	metrics.UpdateDBPoolMetrics(fakeStat{total: 7})
	metrics.UpdateDBPoolMetrics("not a stat")

	if got := testutil.ToFloat64(metrics.DBPoolConnsOpen); got != 7 {
		t.Errorf("open = %g, want 7", got)
	}
}

func TestRingsDropped_ByReason(t *testing.T) {
	before := testutil.ToFloat64(metrics.RingsDropped.WithLabelValues(metrics.ReasonBelowThreshold))
	metrics.RingsDropped.WithLabelValues(metrics.ReasonBelowThreshold).Inc()

	after := testutil.ToFloat64(metrics.RingsDropped.WithLabelValues(metrics.ReasonBelowThreshold))
	if after-before != 1 {
		t.Errorf("delta = %g, want 1", after-before)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/v1/coverage/:name", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/coverage/de-db-anyCoverage", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `coverage_http_requests_total{method="GET",path="/v1/coverage/:name",status="200"}`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output lacks %s", want)
	}
}
