package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apierrors "solareda/internal/errors"
	"solareda/internal/services"
	"solareda/pkg/contracts/domain"
)

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func (m *MockHealthService) SystemStats(ctx context.Context) services.SystemStats {
	return m.Called().Get(0).(services.SystemStats)
}

func (m *MockHealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func newHealthRouter(svc *MockHealthService) http.Handler {
	h := NewHealthHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockHealthService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "health",
			path: "/api/health",
			setupMock: func(m *MockHealthService) {
				m.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Timestamp: now, Version: "1.2.0"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name: "ready",
			path: "/api/health/ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{Status: "ready", Timestamp: now})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ready"`,
		},
		{
			name: "not ready",
			path: "/api/health/ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{
					Status:   "not_ready",
					Services: map[string]interface{}{"reports": services.ServiceHealth{Status: "unhealthy", Message: "not writable"}},
				})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"not writable"`,
		},
		{
			name: "live",
			path: "/api/health/live",
			setupMock: func(m *MockHealthService) {
				m.On("LivenessCheck").Return(services.HealthStatus{Status: "alive"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"alive"`,
		},
		{
			name: "stats",
			path: "/api/health/stats",
			setupMock: func(m *MockHealthService) {
				m.On("SystemStats").Return(services.SystemStats{DatasetFiles: 3, Cache: services.CacheStats{Entries: 2}})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"dataset_files":3`,
		},
		{
			name: "detailed",
			path: "/api/health/detailed",
			setupMock: func(m *MockHealthService) {
				m.On("GetDetailedHealth").Return(map[string]interface{}{
					"liveness": services.HealthStatus{Status: "alive"},
					"stats":    services.SystemStats{DatasetFiles: 1},
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"dataset_files":1`,
		},
		{
			name: "version",
			path: "/api/version",
			setupMock: func(m *MockHealthService) {
				m.On("Version").Return(map[string]interface{}{"version": "1.2.0", "build_time": "2024-01-02"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"version":"1.2.0"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			newHealthRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eh := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delegates to exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "solareda_http_requests_total 1\n")
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "solareda_http_requests_total")
	})
}

func TestServeDashboard(t *testing.T) {
	page := DashboardPage{
		Version:        "1.2.0",
		SampleDataset:  "benin-malanville.csv",
		MaxUploadMB:    64,
		DefaultColumns: domain.IrradianceColumns,
	}
	rec := httptest.NewRecorder()
	ServeDashboard(page, slog.New(slog.NewTextHandler(io.Discard, nil))).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "version 1.2.0")
	assert.Contains(t, body, "uploads up to 64 MB")
	assert.Contains(t, body, "Load sample (benin-malanville.csv)")
	assert.Contains(t, body, "Remove negatives (GHI, DNI, DHI)")
	for _, kind := range domain.ChartKinds {
		assert.Contains(t, body, `<option value="`+string(kind)+`">`)
	}
}
