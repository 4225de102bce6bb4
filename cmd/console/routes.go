package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/handlers"
	"github.com/nirmalhealthcare/clinic-console/internal/middleware"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
)

// screenHandler is the route surface shared by the list screens.
type screenHandler interface {
	Show(c *gin.Context)
	Sort(c *gin.Context)
	Select(c *gin.Context)
	SelectAll(c *gin.Context)
	ClearSelection(c *gin.Context)
	Get(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Delete(c *gin.Context)
	Bulk(c *gin.Context)
}

// registerScreenRoutes registers the list, item and bulk routes of one screen
func registerScreenRoutes(group *gin.RouterGroup, path string, h screenHandler) {
	group.GET(path, h.Show)
	group.POST(path+"/sort", h.Sort)
	group.POST(path+"/select", h.Select)
	group.POST(path+"/select-all", h.SelectAll)
	group.POST(path+"/select/clear", h.ClearSelection)
	group.POST(path+"/bulk", h.Bulk)
	group.GET(path+"/:id", h.Get)
	group.PUT(path+"/:id/status", h.UpdateStatus)
	group.DELETE(path+"/:id", h.Delete)
}

// buildRouter wires middleware and every console route.
func buildRouter(ctx context.Context, cfg *config.Config, workspaces middleware.Workspaces, checks map[string]handlers.ReadinessCheck) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.GinMode)
	handlers.UseWireFieldNames()
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.Server.CookieSecure))

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "traceparent", "tracestate"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true, // Required for the workspace cookie
			MaxAge:           12 * time.Hour,
		}))
	}

	generalRateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Name: "general", Rate: 50, Burst: 100, PerWorkspace: true,
	})
	loginRateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Name: "login", Rate: 0.1, Burst: 5, // 1 req/10s
	})
	passwordRateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Name: "password", Rate: rate.Every(time.Minute), Burst: 3,
	})

	healthHandler := handlers.NewHealthHandler(checks)
	authHandler := handlers.NewAuthHandler()
	dashboardHandler := handlers.NewDashboardHandler()
	appointmentHandler := handlers.NewAppointmentHandler()
	contactHandler := handlers.NewContactHandler()
	testimonialHandler := handlers.NewTestimonialHandler()
	notificationHandler := handlers.NewNotificationHandler(cfg.Server.AllowedOrigins)

	// Operational endpoints
	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cookie := middleware.CookieOptions{Domain: cfg.Server.CookieDomain, Secure: cfg.Server.CookieSecure}
	console := router.Group("/")
	console.Use(middleware.WorkspaceMiddleware(workspaces, cookie))

	// Public screens
	public := console.Group("/")
	public.Use(middleware.BodySizeLimitMiddleware(middleware.DefaultBodyLimit))
	public.GET(shell.RouteRoot, authHandler.Root)
	public.GET(shell.RouteLogin, authHandler.LoginPage)
	public.POST(shell.RouteLogin, loginRateLimiter.Middleware(), authHandler.Login)
	public.POST(shell.RouteForgotPassword, passwordRateLimiter.Middleware(), authHandler.ForgotPassword)
	public.POST(shell.RouteResetPassword, passwordRateLimiter.Middleware(), authHandler.ResetPassword)

	// Guarded screens
	guarded := console.Group("/")
	guarded.Use(generalRateLimiter.Middleware(), middleware.RequireSession())

	uploads := guarded.Group("/")
	uploads.Use(middleware.BodySizeLimitMiddleware(middleware.UploadBodyLimit))
	uploads.POST(shell.RouteTestimonials, testimonialHandler.Create)

	forms := guarded.Group("/")
	forms.Use(middleware.BodySizeLimitMiddleware(middleware.DefaultBodyLimit))
	forms.POST("/logout", authHandler.Logout)
	forms.GET(shell.RouteDashboard, dashboardHandler.Show)
	forms.GET("/profile", authHandler.GetProfile)
	forms.PUT("/profile", authHandler.UpdateProfile)

	registerScreenRoutes(forms, shell.RouteAppointments, appointmentHandler)
	registerScreenRoutes(forms, shell.RouteContacts, contactHandler)
	registerScreenRoutes(forms, shell.RouteTestimonials, testimonialHandler)
	forms.PUT(shell.RouteContacts+"/:id/read", contactHandler.MarkAsRead)
	forms.GET("/counts/unread-messages", contactHandler.UnreadCount)

	forms.GET("/notifications", notificationHandler.List)
	forms.GET("/notifications/stream", notificationHandler.Stream)
	forms.POST("/notifications/mark-all-seen", notificationHandler.MarkAllSeen)
	forms.PUT("/notifications/:id/seen", notificationHandler.MarkSeen)

	if cfg.Server.ProxyAPI {
		proxy, err := handlers.NewProxyHandler(cfg.Backend.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Backend proxy enabled", zap.String("target", cfg.Backend.BaseURL))

		// Registered as NoRoute so it never shadows the console's own /api routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				proxy.Forward(c)
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
	}

	return router, nil
}
