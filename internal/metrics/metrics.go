// Package metrics exports reconcile and HTTP metrics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revix/internal/alarm"
)

const namespace = "revix"

// Metrics holds the collectors. The zero value is not usable; use New.
type Metrics struct {
	runs            prometheus.Counter
	runDuration     prometheus.Histogram
	actions         *prometheus.CounterVec
	activeAlarms    prometheus.Gauge
	loadErrors      prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers the collectors with reg. A nil reg uses the
// default registerer. Collectors already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Count of alarm reconcile passes.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Latency of alarm reconcile passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_actions_total",
			Help:      "Gateway actions by result.",
		}, []string{"result"}),
		activeAlarms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_alarms",
			Help:      "Alarms in the installed snapshot after the last pass.",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_load_errors_total",
			Help:      "Passes that started cold because the snapshot could not be read.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	var err error
	if m.runs, err = register(reg, m.runs); err != nil {
		return nil, err
	}
	if m.runDuration, err = register(reg, m.runDuration); err != nil {
		return nil, err
	}
	if m.actions, err = register(reg, m.actions); err != nil {
		return nil, err
	}
	if m.activeAlarms, err = register(reg, m.activeAlarms); err != nil {
		return nil, err
	}
	if m.loadErrors, err = register(reg, m.loadErrors); err != nil {
		return nil, err
	}
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.requestDuration, err = register(reg, m.requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("failed to register collector: %w", err)
}

// ObserveRun records the outcome of one reconcile pass.
func (m *Metrics) ObserveRun(run alarm.Run) {
	if m == nil {
		return
	}
	m.runs.Inc()
	m.runDuration.Observe(run.Duration.Seconds())
	m.actions.WithLabelValues("scheduled").Add(float64(run.Scheduled))
	m.actions.WithLabelValues("cancelled").Add(float64(run.Cancelled))
	m.actions.WithLabelValues("failed").Add(float64(run.Failed))
	m.activeAlarms.Set(float64(run.Active))
	if run.LoadError != "" {
		m.loadErrors.Inc()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler serves the metrics gathered by g. A nil g uses the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ alarm.Observer = (*Metrics)(nil)
