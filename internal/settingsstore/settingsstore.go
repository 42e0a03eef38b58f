package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/mrlokans/consultorio/internal/entities"
)

var ErrUnsupportedValue = errors.New("unsupported setting value")

// Repository is the row store behind the settings.
type Repository interface {
	ListSettings(ctx context.Context) ([]entities.Setting, error)
	UpsertSettings(ctx context.Context, rows []entities.Setting) error
}

// Settings is the resolved configuration used to render public pages and
// pre-fill the admin form. Keys stored in the table that have no field here
// are kept in Extra.
type Settings struct {
	SiteName       string `json:"site_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Address        string `json:"address"`

	ConsultationPrice    float64 `json:"consultation_price"`
	ConsultationDuration int     `json:"consultation_duration"` // minutes

	AllowRegistrations    bool `json:"allow_registrations"`
	PagSeguroSandbox      bool `json:"pagseguro_sandbox"`
	EmailNotifications    bool `json:"email_notifications"`
	WhatsAppNotifications bool `json:"whatsapp_notifications"`
	BackupEnabled         bool `json:"backup_enabled"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Defaults returns the values used for every key absent from the table.
func Defaults() Settings {
	return Settings{
		SiteName:              "Templo",
		ContactEmail:          "contato@templo.com.br",
		ContactPhone:          "(11) 99999-9999",
		WhatsAppNumber:        "5511999999999",
		Address:               "São Paulo, SP",
		ConsultationPrice:     120.00,
		ConsultationDuration:  30,
		AllowRegistrations:    true,
		PagSeguroSandbox:      true,
		EmailNotifications:    true,
		WhatsAppNotifications: true,
		BackupEnabled:         false,
	}
}

// Map flattens s into key/value pairs, extras included.
func (s Settings) Map() map[string]any {
	out := make(map[string]any, 12+len(s.Extra))
	for k, v := range s.Extra {
		out[k] = v
	}
	out[entities.SettingKeySiteName] = s.SiteName
	out[entities.SettingKeyContactEmail] = s.ContactEmail
	out[entities.SettingKeyContactPhone] = s.ContactPhone
	out[entities.SettingKeyWhatsAppNumber] = s.WhatsAppNumber
	out[entities.SettingKeyAddress] = s.Address
	out[entities.SettingKeyConsultationPrice] = s.ConsultationPrice
	out[entities.SettingKeyConsultationDuration] = s.ConsultationDuration
	out[entities.SettingKeyAllowRegistrations] = s.AllowRegistrations
	out[entities.SettingKeyPagSeguroSandbox] = s.PagSeguroSandbox
	out[entities.SettingKeyEmailNotifications] = s.EmailNotifications
	out[entities.SettingKeyWhatsAppNotifications] = s.WhatsAppNotifications
	out[entities.SettingKeyBackupEnabled] = s.BackupEnabled
	return out
}

// apply sets the field named by key, or records it in Extra.
func (s *Settings) apply(key string, v Value) {
	switch key {
	case entities.SettingKeySiteName:
		s.SiteName = v.AsString()
	case entities.SettingKeyContactEmail:
		s.ContactEmail = v.AsString()
	case entities.SettingKeyContactPhone:
		s.ContactPhone = v.AsString()
	case entities.SettingKeyWhatsAppNumber:
		s.WhatsAppNumber = v.AsString()
	case entities.SettingKeyAddress:
		s.Address = v.AsString()
	case entities.SettingKeyConsultationPrice:
		s.ConsultationPrice = v.AsNumber()
	case entities.SettingKeyConsultationDuration:
		s.ConsultationDuration = int(math.Round(v.AsNumber()))
	case entities.SettingKeyAllowRegistrations:
		s.AllowRegistrations = v.AsBool()
	case entities.SettingKeyPagSeguroSandbox:
		s.PagSeguroSandbox = v.AsBool()
	case entities.SettingKeyEmailNotifications:
		s.EmailNotifications = v.AsBool()
	case entities.SettingKeyWhatsAppNotifications:
		s.WhatsAppNotifications = v.AsBool()
	case entities.SettingKeyBackupEnabled:
		s.BackupEnabled = v.AsBool()
	default:
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = v.Any()
	}
}

// Resolve merges decoded rows over the defaults. Bad rows never fail the
// merge; they contribute their fallback value.
func Resolve(rows []entities.Setting) Settings {
	s := Defaults()
	for _, row := range rows {
		v, err := Decode(row)
		if err != nil {
			log.Printf("[SETTINGS] %v", err)
		}
		s.apply(row.Key, v)
	}
	return s
}

// Store loads and saves the resolved settings.
type Store struct {
	repo Repository
}

func New(repo Repository) *Store {
	return &Store{repo: repo}
}

// LoadPublic never fails: when the table cannot be read the defaults are
// returned so prices and contact details can always render.
func (s *Store) LoadPublic(ctx context.Context) Settings {
	rows, err := s.repo.ListSettings(ctx)
	if err != nil {
		log.Printf("[SETTINGS] Failed to load settings, using defaults: %v", err)
		return Defaults()
	}
	return Resolve(rows)
}

// LoadAdmin returns the resolved settings, or the defaults together with
// the error when the table cannot be read.
func (s *Store) LoadAdmin(ctx context.Context) (Settings, error) {
	rows, err := s.repo.ListSettings(ctx)
	if err != nil {
		return Defaults(), fmt.Errorf("failed to load settings: %w", err)
	}
	return Resolve(rows), nil
}

// FieldInfo describes where a resolved value came from.
type FieldInfo struct {
	Key    string               `json:"key"`
	Value  any                  `json:"value"`
	Type   entities.SettingType `json:"type"`
	Source string               `json:"source"` // "database" or "default"
	Error  string               `json:"error,omitempty"`
}

// Describe lists every known and stored key with its origin, sorted by key.
func (s *Store) Describe(ctx context.Context) ([]FieldInfo, error) {
	rows, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	stored := make(map[string]entities.Setting, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	resolved := Resolve(rows).Map()
	infos := make([]FieldInfo, 0, len(resolved))
	for key, value := range resolved {
		info := FieldInfo{Key: key, Value: value, Source: "default", Type: typeOf(value)}
		if row, ok := stored[key]; ok {
			info.Source = "database"
			info.Type = row.Type
			if _, err := Decode(row); err != nil {
				info.Error = err.Error()
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func typeOf(v any) entities.SettingType {
	switch v.(type) {
	case bool:
		return entities.SettingTypeBoolean
	case float64, int:
		return entities.SettingTypeNumber
	default:
		return entities.SettingTypeString
	}
}

// Save writes every field in values as one batch upsert. Nothing is written
// when any value has an unsupported type.
func (s *Store) Save(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]entities.Setting, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			return fmt.Errorf("%w: empty key", ErrUnsupportedValue)
		}
		row, err := Encode(key, values[key])
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := s.repo.UpsertSettings(ctx, rows); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Printf("[SETTINGS] Saved %d settings", len(rows))
	return nil
}
