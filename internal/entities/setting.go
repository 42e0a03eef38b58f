package entities

import (
	"time"
)

type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeNumber  SettingType = "number"
	SettingTypeBoolean SettingType = "boolean"
)

// Setting is one generic key/value/type row. Value is serialized text whose
// interpretation depends on Type.
type Setting struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Key       string      `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string      `gorm:"type:text" json:"value"`
	Type      SettingType `gorm:"size:20;default:'string'" json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Setting) TableName() string {
	return "system_settings"
}

// Known setting keys
const (
	SettingKeySiteName       = "site_name"
	SettingKeyContactEmail   = "contact_email"
	SettingKeyContactPhone   = "contact_phone"
	SettingKeyWhatsAppNumber = "whatsapp_number"
	SettingKeyAddress        = "address"

	SettingKeyConsultationPrice    = "consultation_price"
	SettingKeyConsultationDuration = "consultation_duration"

	SettingKeyAllowRegistrations    = "allow_registrations"
	SettingKeyPagSeguroSandbox      = "pagseguro_sandbox"
	SettingKeyEmailNotifications    = "email_notifications"
	SettingKeyWhatsAppNotifications = "whatsapp_notifications"
	SettingKeyBackupEnabled         = "backup_enabled"
)
