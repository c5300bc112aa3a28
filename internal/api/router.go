package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/servicehub/marketplace-api/internal/api/docs"
	"github.com/servicehub/marketplace-api/internal/api/handler"
	"github.com/servicehub/marketplace-api/internal/api/middleware"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

const (
	metricsSubsystem   = "marketplace"
	sendCodeBurst      = 3
	rateLimiterExpires = 3 * time.Minute
)

// Services are the core operations exposed over HTTP.
type Services struct {
	Identity  ports.IdentityService
	Session   ports.SessionService
	Approvals ports.ApprovalService
	Requests  ports.RequestService
}

// Options tunes the transport layer.
type Options struct {
	// SendCodeRate is the sustained per-IP rate of POST /auth/send-code, in requests per second.
	SendCodeRate float64
	// HealthChecks are pinged by GET /health/ready.
	HealthChecks map[string]handler.Pinger
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
//	@title						Service Marketplace API
//	@version					1.0
//	@description				Accounts, one-time-code sessions, admin approval and request-to-executor matching.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Identity, svc.Session)
	accountHandler := handler.NewAccountHandler(svc.Identity)
	adminHandler := handler.NewAdminHandler(svc.Identity, svc.Approvals)
	executorHandler := handler.NewExecutorHandler(svc.Identity, svc.Requests)
	requestHandler := handler.NewRequestHandler(svc.Requests, svc.Identity)
	healthHandler := handler.NewHealthHandler(opts.HealthChecks)

	authMiddleware := middleware.Auth(svc.Session)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/send-code", authHandler.SendCode, sendCodeLimiter(opts.SendCodeRate))
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Versioned API ---
	v1 := e.Group("/v1")
	v1.POST("/executors", executorHandler.Register)

	secured := v1.Group("", authMiddleware)
	secured.GET("/executors", executorHandler.ListByCategory)
	secured.GET("/accounts/:id", accountHandler.Get)
	secured.PATCH("/accounts/:id", accountHandler.Update)
	secured.POST("/requests", requestHandler.Submit)
	secured.GET("/requests", requestHandler.List)
	secured.GET("/requests/:id", requestHandler.Get)

	admin := secured.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", adminHandler.ListByRole)
	admin.POST("/accounts/:id/approve", adminHandler.Approve)
	admin.DELETE("/accounts/:id", adminHandler.Delete)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func sendCodeLimiter(perSecond float64) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     sendCodeBurst,
		ExpiresIn: rateLimiterExpires,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many code requests, try again later")
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
