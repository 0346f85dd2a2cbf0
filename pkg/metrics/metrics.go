// Package metrics exposes prometheus metrics of the prediction server.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
)

const unmatchedPath = "unmatched"

// Collector bundles the metrics and wires them into HTTP handlers.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests    *prometheus.CounterVec
	Durations   *prometheus.HistogramVec
	ImpactAreas *prometheus.CounterVec
	DebrisTable prometheus.Gauge
}

// NewCollector registers the metrics against reg, the global registry if nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oas_http_requests_total",
		Help: "Total number of handled HTTP requests by route pattern and status code.",
	}, []string{"path", "code"}), "oas_http_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oas_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"path"}), "oas_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}
	areas, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oas_impact_area_total",
		Help: "Number of recommendations by impact area.",
	}, []string{"area"}), "oas_impact_area_total")
	if err != nil {
		return nil, err
	}
	table, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "oas_debris_table_records",
		Help: "Number of records in the loaded debris table.",
	}), "oas_debris_table_records")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		Requests:    requests,
		Durations:   durations,
		ImpactAreas: areas,
		DebrisTable: table,
	}, nil
}

// Middleware records count and duration of each request. The path label is
// the matched route pattern of the enclosed ServeMux.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		if c == nil {
			return
		}
		path := r.Pattern
		if path == "" {
			path = unmatchedPath
		}
		c.Requests.WithLabelValues(path, strconv.Itoa(sw.code)).Inc()
		c.Durations.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveImpactArea(area collision.ImpactArea) {
	if c == nil {
		return
	}
	c.ImpactAreas.WithLabelValues(string(area)).Inc()
}

func (c *Collector) SetDebrisRecords(n int) {
	if c == nil {
		return
	}
	c.DebrisTable.Set(float64(n))
}

type statusWriter struct {
	http.ResponseWriter
	code    int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.code = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}
