package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "clinical-records", Environment: "test", Version: "1.2.3"},
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         time.Minute,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector(cfg.App.Name, reg)
	patients := memory.NewPatientStore()
	wards := memory.NewWardStore()
	staff := memory.NewStaffStore()
	diagnoses := memory.NewDiagnosisStore()

	return NewRouter(ctx, Deps{
		Config:         cfg,
		Log:            log,
		Metrics:        m,
		Gatherer:       reg,
		TracerProvider: noop.NewTracerProvider(),
		Services: v1.Services{
			Patients: service.NewPatientService(patients, patients.Archive(), nil, m, log),
			Clinical: service.NewClinicalRecordService(service.Registries{
				Patients: patients, Wards: wards, Staff: staff, Diagnoses: diagnoses,
			}, nil, m, log),
			Staff:     service.NewStaffService(staff, nil, m, log),
			Wards:     service.NewWardService(wards, nil, m, log),
			Diagnoses: service.NewDiagnosisService(diagnoses, nil, m, log),
		},
	})
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.BurstSize = 100
	r := newTestRouter(t, cfg)

	rec := get(r, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"clinical-records","version":"1.2.3"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = get(r, "/api/v1/patients/42")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `clinical_records_http_requests_total{method="GET",path="/api/v1/patients/:id",status="404"} 1`))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec := get(r, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route not found","code":"NOT_FOUND"}`, rec.Body.String())
}

func TestRouter_RateLimited(t *testing.T) {
	r := newTestRouter(t, testConfig())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/api/v1/wards").Code)
	}
	rec := get(r, "/api/v1/wards")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRouter_AuditDisabledStillListsLogs(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.BurstSize = 100
	r := newTestRouter(t, cfg)

	rec := get(r, "/api/v1/audit-logs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total":0,"limit":20,"offset":0}`, rec.Body.String())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig()
	srv := NewHTTPServer(cfg.Server, http.NotFoundHandler())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
}
