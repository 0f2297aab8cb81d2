package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"revix/internal/alarm"
)

func TestObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.ObserveRun(alarm.Run{Duration: 20 * time.Millisecond, Scheduled: 3, Cancelled: 1, Failed: 1, Active: 4})
	m.ObserveRun(alarm.Run{Scheduled: 1, Active: 2, LoadError: "corrupt snapshot"})

	if got := testutil.ToFloat64(m.runs); got != 2 {
		t.Errorf("runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.actions.WithLabelValues("scheduled")); got != 4 {
		t.Errorf("scheduled = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.actions.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeAlarms); got != 2 {
		t.Errorf("active = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.loadErrors); got != 1 {
		t.Errorf("load errors = %v, want 1", got)
	}
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}

	first.ObserveRun(alarm.Run{})
	if got := testutil.ToFloat64(second.runs); got != 1 {
		t.Errorf("shared runs = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.ObserveRequest("/api/health", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `revix_http_requests_total{method="GET",route="/api/health",status="200"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q:\n%s", want, body)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRun(alarm.Run{})
	m.ObserveRequest("/", http.MethodGet, http.StatusOK, 0)
}
