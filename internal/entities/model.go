package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID returns a fresh primary key for resource rows.
func NewID() string {
	return uuid.NewString()
}

// Model is embedded by every business resource. IDs are UUID strings so
// rows created through the API and rows seeded externally share a keyspace.
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller left it empty.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

// RowID returns the primary key.
func (m Model) RowID() string {
	return m.ID
}
