package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/entities"
)

// ResourceTables lists every business table the application reads or writes.
var ResourceTables = []string{
	"members",
	"consultations",
	"products",
	"product_categories",
	"orders",
	"order_items",
	"blog_posts",
	"cults",
	"messages",
	"message_templates",
	"roles",
	"entity_types",
	"entities",
	"system_settings",
	"availability",
}

func models() []any {
	return []any{
		&entities.Member{},
		&entities.Consultation{},
		&entities.Product{},
		&entities.ProductCategory{},
		&entities.Order{},
		&entities.OrderItem{},
		&entities.BlogPost{},
		&entities.Cult{},
		&entities.Message{},
		&entities.MessageTemplate{},
		&entities.Role{},
		&entities.EntityType{},
		&entities.Entity{},
		&entities.Setting{},
		&entities.AvailabilitySlot{},
		&entities.User{},
		&entities.AuditEvent{},
	}
}

type Database struct {
	DB     *gorm.DB
	Driver string
}

// Open connects to the configured backend and migrates all tables. The
// returned client is shared by every repository; nothing in the application
// constructs its own connection.
func Open(cfg config.Database) (*Database, error) {
	d, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully (%s)", cfg.Driver)
	return d, nil
}

// Connect opens the backend without touching its schema.
func Connect(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db, Driver: cfg.Driver}, nil
}

func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, config.ErrBackendUnconfigured
	}
	switch cfg.Driver {
	case "sqlite", "":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", config.ErrBackendUnconfigured, cfg.Driver)
	}
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the backend answers.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HasTable reports whether the named table exists in the backend.
func (d *Database) HasTable(name string) bool {
	return d.DB.Migrator().HasTable(name)
}
