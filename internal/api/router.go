package api

import (
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetflow/fleet-api/internal/api/handler"
	"github.com/fleetflow/fleet-api/internal/api/middleware"
	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
	"github.com/fleetflow/fleet-api/internal/core/service"
	mongodb "github.com/fleetflow/fleet-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetflow/fleet-api/internal/infrastructure/db/redis"
	"github.com/fleetflow/fleet-api/internal/pkg/config"
)

const (
	rateLimitPrefix     = "ff:rl:"
	rateLimitAuthPrefix = "ff:rl:auth:"
)

// Deps carries everything the router needs that outlives a request.
type Deps struct {
	Config      *config.Config
	Log         zerolog.Logger
	DB          *mongo.Database
	Sessions    *goredis.Client
	RateLimiter *goredis.Client
	Events      ports.EventSink
}

// NewRouter builds the Echo instance: the full middleware chain in order,
// then every route with its role guard.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, !cfg.IsProd())

	// Middleware chain. Order matters: error normalisation wraps everything,
	// hardening and rate limiting run before any route logic.
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.ResponseTime())
	e.Use(echomiddleware.Secure())
	e.Use(middleware.AccessLog(d.Log))
	e.Use(echoprometheus.NewMiddleware("fleetflow"))
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.Origins,
		ExposeHeaders: []string{
			echo.HeaderXRequestID,
			middleware.HeaderXResponseTime,
			middleware.HeaderRateLimitLimit,
			middleware.HeaderRateLimitRemaining,
			middleware.HeaderRateLimitReset,
		},
	}))
	// Enforced while the body is read, so chunked requests without a
	// Content-Length cannot slip past the declared-size check in Hardening.
	e.Use(echomiddleware.BodyLimit(strconv.FormatInt(cfg.Security.MaxBodyBytes, 10)))
	e.Use(middleware.SessionMiddleware(middleware.SessionConfig{
		Store:      redisdb.NewSessionStore(d.Sessions),
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProd(),
		Logger:     d.Log,
	}))
	e.Use(middleware.Hardening(middleware.HardeningConfig{
		BlockedIPs:   cfg.Security.BlockedIPs,
		MaxBodyBytes: cfg.Security.MaxBodyBytes,
		Logger:       d.Log,
	}))

	counter := redisdb.NewCounter(d.RateLimiter)
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Counter: counter,
		Window:  cfg.RateLimit.Window,
		Max:     cfg.RateLimit.Max,
		Prefix:  rateLimitPrefix,
		Tier:    "default",
		Logger:  d.Log,
	}))

	e.Static("/", cfg.StaticRoot)

	// Services and handlers.
	authService := service.NewAuthService(mongodb.NewAuthRepository(d.DB), cfg.JWTSecret, cfg.JWTTTL)
	vehicleService := service.NewVehicleService(mongodb.NewVehicleRepository(d.DB), d.Events, d.Log)
	tripService := service.NewTripService(mongodb.NewTripRepository(d.DB), d.Events, d.Log)
	driverService := service.NewDriverService(mongodb.NewDriverRepository(d.DB), d.Events, 0, d.Log)
	eventService := service.NewEventService(mongodb.NewEventRepository(d.DB), d.Log)

	authHandler := handler.NewAuthHandler(authService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	tripHandler := handler.NewTripHandler(tripService)
	driverHandler := handler.NewDriverHandler(driverService)
	eventHandler := handler.NewEventHandler(eventService)
	healthHandler := handler.NewHealthHandler(cfg.Version, d.DB, d.Sessions, d.RateLimiter)

	// Probes and metrics, outside /api and outside auth.
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// Login gets the stricter limiter tier stacked on the default one.
	authLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Counter: counter,
		Window:  cfg.RateLimit.AuthWindow,
		Max:     cfg.RateLimit.AuthMax,
		Prefix:  rateLimitAuthPrefix,
		Tier:    "auth",
		Logger:  d.Log,
	})

	api := e.Group("/api")
	api.POST("/auth/login", authHandler.Login, authLimiter)
	api.POST("/auth/logout", authHandler.Logout)

	authed := api.Group("", middleware.Authenticate(cfg.JWTSecret))

	vehicles := authed.Group("/vehicles")
	vehicles.GET("", vehicleHandler.List,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher, domain.RoleSafety, domain.RoleFinance))
	vehicles.GET("/in-shop", vehicleHandler.ListInShop,
		middleware.RequireRole(domain.RoleManager))
	vehicles.GET("/kpis", vehicleHandler.KPIs,
		middleware.RequireRole(domain.RoleManager, domain.RoleFinance))
	vehicles.POST("", vehicleHandler.Create,
		middleware.RequireRole(domain.RoleManager))
	vehicles.POST("/:id/maintenance", vehicleHandler.OpenMaintenance,
		middleware.RequireRole(domain.RoleManager, domain.RoleSafety))
	vehicles.PATCH("/:id/maintenance/:logId/complete", vehicleHandler.CompleteMaintenance,
		middleware.RequireRole(domain.RoleManager, domain.RoleSafety))

	drivers := authed.Group("/drivers")
	drivers.GET("", driverHandler.List,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher, domain.RoleSafety, domain.RoleFinance))
	drivers.GET("/expiring-licences", driverHandler.ExpiringLicenses,
		middleware.RequireRole(domain.RoleManager, domain.RoleSafety))
	drivers.PATCH("/:id", driverHandler.Update,
		middleware.RequireRole(domain.RoleManager, domain.RoleSafety))

	trips := authed.Group("/trips")
	trips.GET("", tripHandler.List,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher, domain.RoleSafety, domain.RoleFinance))
	trips.POST("", tripHandler.Create,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher))
	trips.POST("/:id/dispatch", tripHandler.Dispatch,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher))
	trips.POST("/:id/complete", tripHandler.Complete,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher))
	trips.POST("/:id/cancel", tripHandler.Cancel,
		middleware.RequireRole(domain.RoleManager, domain.RoleDispatcher))

	authed.GET("/events", eventHandler.ListRecent,
		middleware.RequireRole(domain.RoleManager))

	return e
}
