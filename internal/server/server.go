package server

import (
	"context"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Deps struct {
	Config         *config.Config
	Log            *zap.Logger
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	TracerProvider trace.TracerProvider
	Services       v1.Services
}

// NewRouter builds the gin engine. ctx bounds the rate limiter's background eviction.
func NewRouter(ctx context.Context, d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(d.Log),
		middleware.RequestID(),
		middleware.Tracing(d.TracerProvider),
		middleware.Logger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.Config.CORS),
		middleware.RateLimit(middleware.NewIPRateLimiter(ctx, d.Config.RateLimit.RequestsPerSecond, d.Config.RateLimit.BurstSize)),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": d.Config.App.Name,
			"version": d.Config.App.Version,
		})
	})

	if d.Config.Metrics.Enabled {
		r.GET(d.Config.Metrics.Path, gin.WrapH(metrics.MetricsHandler(d.Gatherer)))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})

	v1.NewHandler(d.Services).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func NewHTTPServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
