package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fabric_ledger"

// Metrics groups the Prometheus collectors exported by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ReqTotal       *prometheus.CounterVec
	ReqDur         *prometheus.HistogramVec
	FabricEvents   *prometheus.CounterVec
	PurchasedValue prometheus.Counter
	ReportRuns     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg, falling back to the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		FabricEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fabric_events_total",
			Help:      "Fabric record lifecycle events by kind.",
		}, []string{"event"}),
		PurchasedValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fabric_purchased_amount_total",
			Help:      "Sum of totalAmount over created fabric records.",
		}),
		ReportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_runs_total",
			Help:      "Scheduled purchase summary runs by result.",
		}, []string{"result"}),
	}

	mustRegister(reg, m.ReqTotal, m.ReqDur, m.FabricEvents, m.PurchasedValue, m.ReportRuns)
	return m
}

func mustRegister(reg prometheus.Registerer, collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}

// FabricEvent counts one lifecycle event.
func (m *Metrics) FabricEvent(event string) {
	if m == nil {
		return
	}
	m.FabricEvents.WithLabelValues(event).Inc()
}

// Purchased adds a created record's total to the purchased value counter.
func (m *Metrics) Purchased(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.PurchasedValue.Add(amount)
}

// ReportRun counts a scheduled report outcome.
func (m *Metrics) ReportRun(result string) {
	if m == nil {
		return
	}
	m.ReportRuns.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.ReqTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.ReqDur.WithLabelValues(method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}
