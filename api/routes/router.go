// api/routes/router.go
package routes

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/activity"
	"boxoffice/internal/adminlogs"
	"boxoffice/internal/analytics"
	"boxoffice/internal/auth"
	"boxoffice/internal/bookings"
	"boxoffice/internal/events"
	"boxoffice/internal/gateway"
	"boxoffice/internal/selection"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/tickets"
	"boxoffice/internal/views"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/inflight"
	"boxoffice/pkg/logger"
)

//go:embed static
var staticFiles embed.FS

// Dependencies are the long-lived collaborators built in main
type Dependencies struct {
	Gateway   *gateway.Gateway
	Sessions  session.Provider
	Cache     cache.Service // nil when Redis is not configured
	Publisher activity.Publisher
	Logger    *logger.Logger
}

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	deps     Dependencies
	registry *selection.Registry
	guard    *inflight.Guard
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	if deps.Publisher == nil {
		deps.Publisher = activity.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.GetDefault()
	}
	return &Router{
		config:   cfg,
		deps:     deps,
		registry: selection.NewRegistry(cfg.Session.TTL),
		guard:    inflight.New(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and static assets skip the session cookie
	r.setupHealthRoutes(engine)
	r.setupStaticRoutes(engine)

	// Site pages
	site := engine.Group("")
	site.Use(
		middleware.Session(r.deps.Sessions, r.config.Session, r.deps.Logger),
		middleware.NavGuard(),
		middleware.SessionExpiry(r.deps.Logger),
	)
	{
		r.setupAuthRoutes(site)
		r.setupEventRoutes(site)
		r.setupBookingRoutes(site)
		r.setupTicketRoutes(site)
		r.setupAnalyticsRoutes(site)
		r.setupAdminLogRoutes(site)
	}

	engine.NoRoute(middleware.Session(r.deps.Sessions, r.config.Session, r.deps.Logger), func(c *gin.Context) {
		response.RenderPage(c, http.StatusNotFound, "Not Found", middleware.Links(c),
			views.Heading("Page not found"),
			views.Message("The page you are looking for does not exist."))
	})
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.deps.Cache != nil {
			if err := r.deps.Cache.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "boxoffice-web",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boxoffice-web",
			"redis":     r.deps.Cache != nil,
			"backend":   r.config.Backend.BaseURL,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

func (r *Router) setupStaticRoutes(engine *gin.Engine) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		r.deps.Logger.Error("Static assets unavailable", "error", err.Error())
		return
	}
	engine.StaticFS("/static", http.FS(sub))
}

// setupAuthRoutes configures login, registration and logout
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authController := auth.NewController(r.deps.Gateway, r.deps.Publisher, r.registry, r.guard, r.deps.Logger)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupEventRoutes configures the catalogue and the organizer dashboard
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventController := events.NewController(events.ControllerConfig{
		Gateway:       r.deps.Gateway,
		Cache:         r.deps.Cache,
		Publisher:     r.deps.Publisher,
		Guard:         r.guard,
		Logger:        r.deps.Logger,
		MaxUploadSize: r.config.Backend.MaxUploadSize,
	})

	events.SetupEventRoutes(rg, eventController)
}

// setupBookingRoutes configures seat selection and checkout
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingController := bookings.NewController(r.deps.Gateway, r.deps.Cache, r.registry,
		r.deps.Publisher, r.guard, r.deps.Logger)

	bookings.SetupBookingRoutes(rg, bookingController, r.config.CORSAllowedOrigins)
}

// setupTicketRoutes configures the order history
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	tickets.SetupTicketRoutes(rg, tickets.NewController(r.deps.Gateway))
}

// setupAnalyticsRoutes configures the organizer's JSON analytics
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(r.deps.Gateway, r.deps.Logger))
}

// setupAdminLogRoutes configures the staff action log
func (r *Router) setupAdminLogRoutes(rg *gin.RouterGroup) {
	adminlogs.SetupAdminLogRoutes(rg, adminlogs.NewController(r.deps.Gateway))
}
