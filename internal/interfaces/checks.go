package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/audit"
	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/booking"
	"github.com/mrlokans/consultorio/internal/database"
	"github.com/mrlokans/consultorio/internal/database/availability"
	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/database/settings"
	"github.com/mrlokans/consultorio/internal/database/users"
	"github.com/mrlokans/consultorio/internal/diagnostics"
	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/http"
	"github.com/mrlokans/consultorio/internal/messaging"
	"github.com/mrlokans/consultorio/internal/notify"
	"github.com/mrlokans/consultorio/internal/reports"
	"github.com/mrlokans/consultorio/internal/scheduler"
	"github.com/mrlokans/consultorio/internal/settingsstore"
	"github.com/mrlokans/consultorio/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Admin table clients
var _ admin.Client[entities.Member] = (*resource.Repository[entities.Member])(nil)
var _ admin.Client[entities.Consultation] = (*resource.Repository[entities.Consultation])(nil)
var _ admin.Client[entities.Product] = (*resource.Repository[entities.Product])(nil)

// Settings and users
var _ settingsstore.Repository = (*settings.Repository)(nil)
var _ auth.UserStore = (*users.Repository)(nil)

// Booking
var _ booking.SlotSource = (*availability.Repository)(nil)
var _ booking.ConsultationWriter = (*resource.Repository[entities.Consultation])(nil)
var _ booking.Notifier = (*messaging.Composer)(nil)
var _ booking.SettingsLoader = (*settingsstore.Store)(nil)

// Messaging
var _ messaging.Store = (*resource.Messages)(nil)
var _ messaging.TemplateStore = (*resource.Repository[entities.MessageTemplate])(nil)

// Reports
var _ reports.Source[entities.Consultation] = (*resource.Repository[entities.Consultation])(nil)
var _ reports.Source[entities.Order] = (*resource.Repository[entities.Order])(nil)
var _ reports.Source[entities.Member] = (*resource.Repository[entities.Member])(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.Backend = (*database.Database)(nil)
var _ http.Auditor = (*audit.Service)(nil)
var _ http.AuditLister = (*audit.Service)(nil)
var _ http.StockStore = (*resource.Products)(nil)
var _ http.PublicSettings = (*settingsstore.Store)(nil)
var _ http.Lister[entities.BlogPost] = (*resource.Repository[entities.BlogPost])(nil)
var _ http.MaintenanceScheduler = (*scheduler.MaintenanceScheduler)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ auth.Auditor = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ diagnostics.Backend = (*database.Database)(nil)
var _ tasks.Prober = (*diagnostics.Probe)(nil)
var _ tasks.Recorder = (*diagnostics.Monitor)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)

// Notifications
var _ notify.Notifier = (*notify.Buffer)(nil)
var _ notify.Notifier = notify.Discard{}
