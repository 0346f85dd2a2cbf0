package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c
}

func TestMiddlewareRecordsPattern(t *testing.T) {
	c := newTestCollector(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h := c.Middleware(mux)

	for _, path := range []string{"/predict", "/unknown"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(c.Requests.WithLabelValues("POST /predict", "400")); got != 1 {
		t.Fatalf("oas_http_requests_total{POST /predict,400} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Requests.WithLabelValues(unmatchedPath, "404")); got != 1 {
		t.Fatalf("oas_http_requests_total{unmatched,404} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.Durations); got != 2 {
		t.Fatalf("oas_http_request_duration_seconds series = %d, want 2", got)
	}
}

func TestMiddlewareDefaultStatus(t *testing.T) {
	c := newTestCollector(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	c.Middleware(mux).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if got := testutil.ToFloat64(c.Requests.WithLabelValues("GET /healthz", "200")); got != 1 {
		t.Fatalf("oas_http_requests_total{GET /healthz,200} = %v, want 1", got)
	}
}

func TestObserveImpactArea(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveImpactArea(collision.HighImpact)
	c.ObserveImpactArea(collision.HighImpact)
	c.ObserveImpactArea(collision.LowImpact)

	if got := testutil.ToFloat64(c.ImpactAreas.WithLabelValues("High Impact Area")); got != 2 {
		t.Fatalf("oas_impact_area_total{High} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ImpactAreas.WithLabelValues("Low Impact Area")); got != 1 {
		t.Fatalf("oas_impact_area_total{Low} = %v, want 1", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveImpactArea(collision.HighImpact)
	c.SetDebrisRecords(3)
	rr := httptest.NewRecorder()
	c.Middleware(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	second.SetDebrisRecords(4)
	if got := testutil.ToFloat64(first.DebrisTable); got != 4 {
		t.Fatalf("oas_debris_table_records = %v, want 4 on shared collector", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := newTestCollector(t)
	c.SetDebrisRecords(7)
	c.ObserveImpactArea(collision.MediumImpact)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"oas_debris_table_records 7",
		`oas_impact_area_total{area="Medium Impact Area"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output:\n%s", want, body)
		}
	}
}
