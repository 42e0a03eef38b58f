// Package interfaces documents the core abstractions used throughout the application.
//
// Consumers declare the small interfaces they need next to the code that
// uses them; concrete types live in the database, settingsstore, messaging,
// diagnostics, tasks and scheduler packages. checks.go pins every pairing.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - admin.Client[T]: CRUD surface of one back office table (internal/admin/table.go)
//   - settingsstore.Repository: settings rows (internal/settingsstore/settingsstore.go)
//   - auth.UserStore: back office accounts (internal/auth/service.go)
//   - booking.SlotSource: streamed availability (internal/booking/slots.go)
//   - booking.ConsultationWriter: booking intents (internal/booking/service.go)
//   - messaging.Store, messaging.TemplateStore: outbound messages (internal/messaging/messaging.go)
//   - reports.Source[T]: rows in a date range (internal/reports/builder.go)
//
// ## HTTP Interfaces
//
//   - http.Backend: health check ping (internal/http/health.go)
//   - http.Auditor, http.AuditLister: audit trail (internal/http/resources.go, internal/http/audit.go)
//   - http.StockStore: stock queries and adjustments (internal/http/stock.go)
//   - http.Lister[T], http.PublicSettings: public site content (internal/http/public.go)
//   - http.MaintenanceScheduler, http.TaskStatusReader: background work (internal/http/diagnostics.go)
//
// ## Background Work Interfaces
//
//   - diagnostics.Backend: ping and table lookup (internal/diagnostics/diagnostics.go)
//   - tasks.Prober, tasks.Recorder: scheduled diagnostics (internal/tasks/diagnostics.go)
//   - tasks.AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//   - scheduler.Enqueuer: cron to task queue (internal/scheduler/maintenance.go)
//   - notify.Notifier: user-visible notifications (internal/notify/notify.go)
//
// # Adding a New Back Office Resource
//
//  1. Add the entity to internal/entities and to models() in
//     internal/database/database.go; list its table in ResourceTables.
//
//  2. Describe its fields in internal/admin/schemas.go:
//
//     var Donations = Schema{
//         Resource: "donations",
//         Title:    "Doação",
//         Fields: []Field{
//             {Name: "donor_name", Label: "Doador", Kind: KindText, Required: true, Searchable: true},
//             {Name: "amount", Label: "Valor", Kind: KindMoney, Required: true, Sortable: true},
//         },
//     }
//
//  3. Add a table to admin.Tables and register its controller in
//     registerResources (internal/http/resources.go).
//
// # Adding a New Maintenance Job
//
//  1. Define the task and its queue in internal/tasks/ (see cleanup_audit.go).
//
//  2. Register the queue in entrypoint.go and add the schedule to
//     config.Maintenance and MaintenanceScheduler.Start.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
