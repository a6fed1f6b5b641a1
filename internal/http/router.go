package http

import (
	"context"
	"time"

	"github.com/geocoder89/tickethub/internal/auth"
	"github.com/geocoder89/tickethub/internal/cache"
	"github.com/geocoder89/tickethub/internal/config"
	"github.com/geocoder89/tickethub/internal/http/handlers"
	"github.com/geocoder89/tickethub/internal/http/middlewares"
	"github.com/geocoder89/tickethub/internal/observability"
	"github.com/geocoder89/tickethub/internal/repo/postgres"
	"github.com/geocoder89/tickethub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Deps struct {
	Cfg     config.Config
	Pool    *pgxpool.Pool
	Cache   *cache.Cache
	JWT     *auth.Manager
	Prom    *observability.Prom
	PromReg *prometheus.Registry
	Uploads *storage.DiskStore
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(deps.Cfg.MaxUploadBytes))
	r.Use(otelgin.Middleware("tickethub-api"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	if deps.PromReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.PromReg, promhttp.HandlerOpts{})))
	}

	ping := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	// static uploads; the security headers middleware relaxes CSP here
	r.Static("/uploads", deps.Uploads.BaseDir())

	// repositories
	eventsRepo := postgres.NewEventsRepo(deps.Pool, deps.Prom)
	referenceRepo := postgres.NewReferenceRepo(deps.Pool, deps.Prom)
	bookingsRepo := postgres.NewBookingsRepo(deps.Pool, deps.Prom)
	jobsRepo := postgres.NewJobsRepo(deps.Pool, deps.Prom)
	usersRepo := postgres.NewUsersRepo(deps.Pool)
	refreshRepo := postgres.NewRefreshTokensRepo(deps.Pool)

	// handlers
	var listCache handlers.ListCache

	if deps.Cache != nil {
		listCache = deps.Cache
	}

	eventsHandler := handlers.NewEventsHandler(eventsRepo, referenceRepo, deps.Uploads, listCache, jobsRepo, deps.Cfg.DefaultCurrency)
	referenceHandler := handlers.NewReferenceHandler(referenceRepo, listCache)
	bookingsHandler := handlers.NewBookingsHandler(bookingsRepo, eventsRepo, usersRepo, jobsRepo)
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, deps.JWT, refreshRepo, deps.Cfg)

	authMW := middlewares.NewAuthMiddleware(deps.JWT)

	authLimiter := middlewares.NewRateLimiter(10, time.Minute)
	writeLimiter := middlewares.NewRateLimiter(60, time.Minute)

	// auth
	authGroup := r.Group("/auth")
	authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// public reads
	r.GET("/events", eventsHandler.ListEvents)
	r.GET("/events/:id", eventsHandler.GetEventByID)
	r.GET("/events/categories", referenceHandler.ListCategories)
	r.GET("/events/venues", referenceHandler.ListVenues)
	r.GET("/events/venues/:id", referenceHandler.GetVenueByID)

	// authenticated
	protected := r.Group("/")
	protected.Use(authMW.RequireAuth())
	protected.Use(writeLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	{
		protected.GET("/events/my/events", eventsHandler.MyEvents)
		protected.POST("/events", eventsHandler.CreateEvent)
		protected.PUT("/events/:id", eventsHandler.UpdateEvent)
		protected.DELETE("/events/:id", eventsHandler.DeleteEvent)

		protected.POST("/events/:id/bookings", bookingsHandler.CreateBooking)
		protected.DELETE("/events/:id/bookings/:bookingId", bookingsHandler.CancelBooking)
		protected.GET("/events/:id/bookings", bookingsHandler.ListEventBookings)

		admin := protected.Group("/")
		admin.Use(authMW.RequireRole("admin"))
		{
			admin.POST("/events/categories", referenceHandler.CreateCategory)
			admin.POST("/events/venues", referenceHandler.CreateVenue)
		}
	}

	return r
}
