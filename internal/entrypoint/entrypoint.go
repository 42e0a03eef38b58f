package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/audit"
	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/booking"
	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database"
	auditrepo "github.com/mrlokans/consultorio/internal/database/audit"
	"github.com/mrlokans/consultorio/internal/database/availability"
	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/database/settings"
	"github.com/mrlokans/consultorio/internal/database/users"
	"github.com/mrlokans/consultorio/internal/diagnostics"
	"github.com/mrlokans/consultorio/internal/entities"
	http_controllers "github.com/mrlokans/consultorio/internal/http"
	"github.com/mrlokans/consultorio/internal/messaging"
	"github.com/mrlokans/consultorio/internal/notify"
	"github.com/mrlokans/consultorio/internal/reports"
	"github.com/mrlokans/consultorio/internal/scheduler"
	"github.com/mrlokans/consultorio/internal/settingsstore"
	"github.com/mrlokans/consultorio/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests the
	// configured timeout to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work is stopped once no request can enqueue more
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes AUTH_SESSION_SECRET, or generates a secret that lives
// until the process exits.
func csrfSecret(cfg config.Auth) ([]byte, error) {
	if cfg.SessionSecret != "" {
		secret, err := hex.DecodeString(cfg.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(cfg.SessionSecret), nil
		}
		return secret, nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Consultorio v%s", version)

	// No route is served until the backend is known
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	notifier := notify.NewBuffer(100)
	settingsStore := settingsstore.New(settings.NewRepository(db.DB))
	tables := admin.NewTables(db.DB, notifier)
	products := resource.NewProducts(db.DB)
	consultations := resource.NewRepository[entities.Consultation](db.DB)

	composer := messaging.NewComposer(
		resource.NewMessages(db.DB),
		resource.NewRepository[entities.MessageTemplate](db.DB),
	)
	bookingService := booking.NewService(
		availability.NewRepository(db.DB),
		consultations,
		composer,
		settingsStore,
		cfg.Booking.SyntheticFallback,
	)
	reportBuilder := reports.NewBuilder(
		consultations,
		resource.NewRepository[entities.Order](db.DB),
		resource.NewRepository[entities.Member](db.DB),
	)

	probe := diagnostics.NewProbe(db, database.ResourceTables)
	monitor := &diagnostics.Monitor{}
	if report := probe.Run(context.Background()); !report.Healthy() {
		log.Printf("WARNING: backend diagnostics failed, missing tables: %v, error: %s", report.Missing(), report.Error)
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Sessions carry the public booking flow in every auth mode. They are
	// persisted only when the backend is SQLite.
	var sqlDB *sql.DB
	if db.Driver == "sqlite" {
		sqlDB, err = db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var secret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(users.NewRepository(db.DB), cfg.Auth)
		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		secret, err = csrfSecret(cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}

		hasUsers, _ := authService.HasUsers(context.Background())
		if !hasUsers {
			log.Printf("No users found. Visit /setup or run 'create-admin' to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Initialize task queue and maintenance jobs if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Tasks)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditService),
			tasks.NewRunDiagnosticsQueue(probe, monitor),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance)
		if err := maintenance.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	} else {
		log.Printf("Task queue disabled: maintenance jobs will not run")
	}

	routerCfg := http_controllers.RouterConfig{
		Backend:   db,
		Resources: tables,
		Public: http_controllers.PublicContent{
			Products:  products,
			BlogPosts: resource.NewRepository[entities.BlogPost](db.DB),
			Cults:     resource.NewRepository[entities.Cult](db.DB),
		},
		Products:       products,
		Settings:       settingsStore,
		Booking:        bookingService,
		Composer:       composer,
		Reports:        reportBuilder,
		Notifier:       notifier,
		Probe:          probe,
		Monitor:        monitor,
		AuditService:   auditService,
		AuthConfig:     cfg.Auth,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		BookingConfig:  cfg.Booking,
		CORS:           cfg.CORS,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
		routerCfg.Scheduler = maintenance
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
