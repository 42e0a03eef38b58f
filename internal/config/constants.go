package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default sqlite file used when DATABASE_DSN is not set
	DefaultDatabasePath = "./consultorio.db"

	// DefaultTasksDatabasePath is the sqlite file backing the background task queue
	DefaultTasksDatabasePath = "./consultorio-tasks.db"
)
