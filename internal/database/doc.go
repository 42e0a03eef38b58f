// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── resource/        # Generic CRUD repository shared by every business table
//	├── availability/    # Bookable slots, read as a lazy sequence
//	├── settings/        # system_settings key/value/type rows
//	├── audit/           # Audit event log
//	└── users/           # Back office users
//
// # Using Sub-packages
//
// The client is built once at startup and handed to each repository:
//
//	db, err := database.Open(cfg.Database)
//
//	members := resource.NewRepository[entities.Member](db.DB)
//	settingsRepo := settings.NewRepository(db.DB)
//
//	rows, err := members.GetAll(ctx, resource.Filter{OrderBy: "name"})
//
// # Interface Implementations
//
//   - resource.Repository[T]: implements admin.Client[T] and the http resource stores
//   - settings.Repository: implements settingsstore.Repository
//   - availability.Repository: implements booking.SlotSource
//   - audit.Repository: implements audit.Repository
//
// # Adding a New Resource
//
//  1. Add the entity to internal/entities with a TableName method
//  2. Register it in models() and ResourceTables
//  3. Add an admin.Schema describing its fields
//  4. Mount it in the router through the generic resource controller
package database
