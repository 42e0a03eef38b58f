package entities

import "time"

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

type Member struct {
	Model
	Name      string       `gorm:"index;size:255;not null" json:"name"`
	Email     string       `gorm:"index;size:255" json:"email"`
	Phone     string       `gorm:"size:32" json:"phone"`
	Address   string       `gorm:"size:512" json:"address,omitempty"`
	BirthDate *time.Time   `json:"birth_date,omitempty"`
	RoleID    *string      `gorm:"index;size:36" json:"role_id,omitempty"`
	Status    MemberStatus `gorm:"size:20;default:'active'" json:"status"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// Role has no unique constraint on Name; duplicates are the caller's concern.
type Role struct {
	Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	Permissions string `gorm:"type:text" json:"permissions,omitempty"` // comma separated
}

func (Role) TableName() string {
	return "roles"
}

type EntityType struct {
	Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	Color       string `gorm:"size:10" json:"color,omitempty"`
}

func (EntityType) TableName() string {
	return "entity_types"
}

// Entity is a spiritual entity (orixá, guia) catalogued by the house.
type Entity struct {
	Model
	Name         string  `gorm:"index;size:255;not null" json:"name"`
	EntityTypeID *string `gorm:"index;size:36" json:"entity_type_id,omitempty"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
	Attributes   string  `gorm:"type:text" json:"attributes,omitempty"` // JSON blob
	Active       bool    `json:"active"`
}

func (Entity) TableName() string {
	return "entities"
}
