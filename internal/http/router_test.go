package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/mock/gomock"

	"revix/internal/alarm"
	"revix/internal/metrics"
	"revix/internal/service"
	"revix/internal/service/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockRecordService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockRecordService(ctrl)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New() error = %v", err)
	}

	router := NewRouter(&Deps{
		Records:        svc,
		DB:             okPinger{},
		Metrics:        m,
		MetricsHandler: metrics.Handler(reg),
	})
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
	return router, svc
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		mockSetup  func(*mocks.MockRecordService)
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/next-date exists",
			method:     http.MethodPost,
			path:       "/api/next-date",
			body:       "{",
			wantStatus: http.StatusBadRequest, // Bad request due to invalid body, but route exists
		},
		{
			name:   "GET /api/records",
			method: http.MethodGet,
			path:   "/api/records",
			mockSetup: func(m *mocks.MockRecordService) {
				m.EXPECT().List(gomock.Any()).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "DELETE /api/records",
			method: http.MethodDelete,
			path:   "/api/records?category=a&sub_category=b&title=c",
			mockSetup: func(m *mocks.MockRecordService) {
				m.EXPECT().Delete(gomock.Any(), service.RecordID{Category: "a", SubCategory: "b", Title: "c"}).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "POST /api/reconcile",
			method: http.MethodPost,
			path:   "/api/reconcile",
			mockSetup: func(m *mocks.MockRecordService) {
				m.EXPECT().Reconcile(gomock.Any()).Return(service.ReconcileResult{RunID: "r"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/alarms.ics",
			method: http.MethodGet,
			path:   "/api/alarms.ics",
			mockSetup: func(m *mocks.MockRecordService) {
				m.EXPECT().Alarms(gomock.Any()).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/reconcile method not allowed",
			method:     http.MethodGet,
			path:       "/api/reconcile",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "GET /metrics",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newTestRouter(t)
			if tt.mockSetup != nil {
				tt.mockSetup(svc)
			}

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().Alarms(gomock.Any()).DoAndReturn(func(context.Context) ([]alarm.Metadata, error) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/alarms", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
