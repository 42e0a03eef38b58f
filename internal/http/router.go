package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}
	router.Use(CORSMiddleware(cfg.CORS))

	// Sessions carry both the admin login and the public booking flow
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndCommit())
	}

	var auditor Auditor = nopAuditor{}
	if cfg.AuditService != nil {
		auditor = cfg.AuditService
	}

	health := NewHealthController(cfg.Backend, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Admin authentication. CSRF protects the login forms and the admin API
	// only; the public site never sees a token.
	var csrf []gin.HandlerFunc
	if cfg.AuthConfig.Mode == config.AuthModeLocal && len(cfg.CSRFSecret) > 0 {
		csrf = append(csrf, auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	var authController *auth.AuthController
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() && cfg.SessionManager != nil {
		var authAuditor auth.Auditor
		if cfg.AuditService != nil {
			authAuditor = cfg.AuditService
		}
		authController = auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig, authAuditor)
		authController.RegisterRoutes(router.Group("", csrf...))
	}

	// Public site
	if cfg.Settings != nil {
		public := NewPublicController(cfg.Public, cfg.Settings)
		pub := router.Group("/api/public")
		pub.GET("/settings", public.Settings)
		if cfg.Public.Products != nil {
			pub.GET("/products", public.Products)
		}
		if cfg.Public.BlogPosts != nil {
			pub.GET("/blog", public.BlogList)
			pub.GET("/blog/:slug", public.BlogPost)
		}
		if cfg.Public.Cults != nil {
			pub.GET("/cults", public.Cults)
		}
		pub.GET("/contact/whatsapp", public.WhatsApp)
		pub.GET("/contact/whatsapp.png", public.WhatsAppQR)
	}

	if cfg.Booking != nil && cfg.SessionManager != nil {
		bookingController := NewBookingController(cfg.Booking, cfg.SessionManager, auditor)
		limiter := NewIPRateLimiter(cfg.BookingConfig.SubmitRatePerMinute)

		b := router.Group("/booking")
		b.GET("", bookingController.State)
		b.GET("/slots", bookingController.Slots)
		b.POST("/identity", bookingController.Identity)
		b.POST("/slot", bookingController.SelectSlot)
		b.POST("/back", bookingController.Back)
		b.POST("/confirm", limiter.Middleware(), bookingController.Confirm)
		b.POST("/reset", bookingController.Reset)
	}

	// Back office API
	middleware := cfg.AuthMiddleware
	if middleware == nil {
		middleware = auth.NewMiddleware(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
	}
	adminHandlers := append(append([]gin.HandlerFunc{}, csrf...), middleware.Handler(), middleware.RequireWriter(), scopeToCaller())
	api := router.Group("/api/admin", adminHandlers...)

	if authController != nil {
		api.GET("/me", authController.Me)
	}

	if cfg.Resources != nil {
		registerResources(api, cfg.Resources, auditor)
	}
	if cfg.Products != nil {
		stock := NewStockController(cfg.Products, auditor)
		api.GET("/products/low-stock", stock.LowStock)
		api.POST("/products/:id/stock", stock.Adjust)
	}
	if cfg.Settings != nil {
		settings := NewSettingsController(cfg.Settings, auditor)
		api.GET("/settings", settings.Get)
		api.PUT("/settings", settings.Update)
	}
	if cfg.Composer != nil {
		messages := NewMessagesController(cfg.Composer, auditor)
		api.POST("/messages/compose", messages.Compose)
	}
	if cfg.Reports != nil {
		reportsController := NewReportsController(cfg.Reports, cfg.Settings, auditor)
		api.GET("/reports/financial", reportsController.Financial)
		api.GET("/reports/financial/export.csv", reportsController.ExportCSV)
		api.GET("/reports/financial/export.pdf", reportsController.ExportPDF)
	}
	if cfg.Probe != nil {
		diag := NewDiagnosticsController(cfg.Probe, cfg.Monitor, cfg.Scheduler, cfg.Tasks)
		api.GET("/diagnostics", diag.Status)
		api.POST("/diagnostics/run", diag.Run)
		api.POST("/maintenance/:job/run", diag.RunJob)
		api.GET("/tasks/:id", diag.TaskStatus)
	}
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		api.GET("/audit", auditController.GetAuditEvents)
	}
	if cfg.Notifier != nil {
		api.GET("/notifications", Notifications(cfg.Notifier))
	}

	return router
}
