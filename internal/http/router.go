package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"revix/internal/handlers"
	"revix/internal/metrics"
	"revix/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Records service.RecordService
	// DB is pinged by the health check.
	DB handlers.Pinger
	// PendingAlarms reports armed alarm timers; may be nil.
	PendingAlarms func() int
	// Metrics records request metrics; may be nil.
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(Instrument(deps.Metrics))

	// Add CORS middleware
	r.Use(CORS)

	records := handlers.NewRecordsHandler(deps.Records)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/next-date", handlers.NewNextDateHandler(deps.Records))
		r.Method(http.MethodGet, "/records", records)
		r.Method(http.MethodPost, "/records", records)
		r.Method(http.MethodDelete, "/records", records)
		r.Method(http.MethodPost, "/records/complete", handlers.NewCompleteHandler(deps.Records))
		r.Method(http.MethodPost, "/reconcile", handlers.NewReconcileHandler(deps.Records))
		r.Method(http.MethodGet, "/alarms", handlers.NewAlarmsHandler(deps.Records))
		r.Method(http.MethodGet, "/alarms.ics", handlers.NewCalendarHandler(deps.Records))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.PendingAlarms))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
