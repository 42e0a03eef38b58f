package http

import (
	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/audit"
	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/booking"
	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/diagnostics"
	"github.com/mrlokans/consultorio/internal/messaging"
	"github.com/mrlokans/consultorio/internal/notify"
	"github.com/mrlokans/consultorio/internal/reports"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Backend   Backend
	Resources *admin.Tables
	Public    PublicContent
	Products  StockStore
	Settings  *settingsstore.Store
	Booking   *booking.Service
	Composer  *messaging.Composer
	Reports   *reports.Builder
	Notifier  *notify.Buffer

	// Diagnostics
	Probe     *diagnostics.Probe
	Monitor   *diagnostics.Monitor
	Scheduler MaintenanceScheduler // optional
	Tasks     TaskStatusReader     // optional

	// Audit (optional)
	AuditService *audit.Service

	// Authentication
	AuthConfig     config.Auth
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	BookingConfig config.Booking
	CORS          config.CORS

	// Application info
	Version string
}
