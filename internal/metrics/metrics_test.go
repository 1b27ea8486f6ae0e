package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.FabricEvent("created")
	m.FabricEvent("created")
	m.Purchased(120.5)
	m.Purchased(-3)
	m.ReportRun("ok")

	require.Equal(t, 2.0, testutil.ToFloat64(m.FabricEvents.WithLabelValues("created")))
	require.Equal(t, 120.5, testutil.ToFloat64(m.PurchasedValue))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ReportRuns.WithLabelValues("ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.FabricEvent("created")
	m.Purchased(10)
	m.ReportRun("failed")
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/fabrics/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fabrics/abc", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.ReqTotal.WithLabelValues("GET", "/api/fabrics/:id", "204")))
}
