package router

import (
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/interfaces/http/handler"
	"github.com/fieldsales/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig carries everything the HTTP engine is assembled from
type EngineConfig struct {
	HTTP          config.HTTPConfig
	Telemetry     config.TelemetryConfig
	Logger        *zap.Logger
	Meter         metric.Meter // nil disables HTTP metrics
	Authenticator middleware.Authenticator
	System        *handler.SystemHandler
	Field         FieldHandlers
}

// healthPaths are served without authentication
var healthPaths = []string{"/health", "/api/v1/health"}

// NewEngine builds the gin engine with the middleware chain and every route.
// Order matters: request IDs feed logging and tracing, and the actor is only
// known after Auth.
func NewEngine(cfg EngineConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		cfg.Logger.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.HTTPMetrics(cfg.Meter),
		middleware.CORS(cfg.HTTP),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Auth(middleware.AuthConfig{
			Authenticator: cfg.Authenticator,
			SkipPaths:     healthPaths,
			Logger:        cfg.Logger,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
	)

	if cfg.System != nil {
		for _, p := range healthPaths {
			engine.GET(p, cfg.System.Health)
		}
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(NewFieldGroup(cfg.Field))
	r.Setup()

	return engine
}
