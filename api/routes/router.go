// api/routes/router.go
package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"launidad/internal/admissions"
	"launidad/internal/auth"
	"launidad/internal/calendar"
	"launidad/internal/checkout"
	"launidad/internal/gate"
	"launidad/internal/shared/config"
	"launidad/internal/shared/database"
	"launidad/internal/tickets"
	"launidad/pkg/cache"
	"launidad/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer admissions.Producer

	// Services shared across route groups
	calendarService calendar.Service
	ticketService   tickets.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer admissions.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Setup auth routes
		r.setupAuthRoutes(api)

		// Calendar routes come first: the ticket ledger and gate
		// both consume the calendar service
		r.setupCalendarRoutes(api)

		// Setup ticket console routes
		r.setupTicketRoutes(api)

		// Setup checkout routes
		r.setupCheckoutRoutes(api)

		// Setup gate routes
		r.setupGateRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "launidad-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "launidad-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures operator authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	var authRepo auth.Repository
	if r.db.GetPostgreSQL() != nil {
		authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	} else {
		authRepo = auth.NewMemoryRepository()
	}

	authService := auth.NewService(authRepo, r.config)

	// The memory store starts empty; seed the configured admin account so
	// the console and gate routes are reachable without Postgres.
	if r.db.GetPostgreSQL() == nil {
		if err := auth.EnsureBootstrapOperator(context.Background(), authService, r.config); err != nil {
			logger.GetDefault().Error("failed to bootstrap operator account", slog.Any("error", err))
		}
	}
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupCalendarRoutes configures slot catalogue and provisioning routes
func (r *Router) setupCalendarRoutes(rg *gin.RouterGroup) {
	var slotRepo calendar.Repository
	if r.db.GetPostgreSQL() != nil {
		slotRepo = calendar.NewRepository(r.db.GetPostgreSQL())
	} else {
		slotRepo = calendar.NewMemoryRepository()
	}

	calendarService := calendar.NewService(slotRepo)
	if r.db.GetRedisClient() != nil {
		calendarService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}
	r.calendarService = calendarService

	calendarController := calendar.NewController(calendarService)
	calendar.SetupSlotRoutes(rg, calendarController)
}

// setupTicketRoutes configures the box-office console routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	var ticketRepo tickets.Repository
	if r.db.GetPostgreSQL() != nil {
		ticketRepo = tickets.NewRepository(r.db.GetPostgreSQL())
	} else {
		ticketRepo = tickets.NewMemoryRepository()
	}

	ticketService := tickets.NewService(ticketRepo, r.calendarService)
	r.ticketService = ticketService

	ticketController := tickets.NewController(ticketService, r.calendarService)
	tickets.SetupConsoleRoutes(rg, ticketController)
}

// setupCheckoutRoutes configures the public purchase flow
func (r *Router) setupCheckoutRoutes(rg *gin.RouterGroup) {
	checkoutService := checkout.NewService(r.ticketService, float64(r.config.Tickets.PriceARS))
	checkoutController := checkout.NewController(checkoutService)
	checkout.SetupCheckoutRoutes(rg, checkoutController)
}

// setupGateRoutes configures the gate validation terminal routes
func (r *Router) setupGateRoutes(rg *gin.RouterGroup) {
	gateService := gate.NewService(
		r.ticketService,
		r.calendarService,
		r.producer,
		r.config.Tickets.RecentLimit,
		r.config.Tickets.GateName,
	)
	gateController := gate.NewController(gateService)
	gate.SetupGateRoutes(rg, gateController)
}
