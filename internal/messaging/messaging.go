// Package messaging records outbound notifications.
//
// Nothing here sends anything: Compose validates a draft and writes it to the
// messages table with status pending. Delivery and status transitions belong
// to an external sender.
//
// # Usage
//
//	composer := messaging.NewComposer(messagesRepo, templatesRepo)
//	msg, err := composer.Compose(ctx, messaging.Draft{
//		RecipientName:  "Maria",
//		RecipientPhone: "5511999990000",
//		Type:           entities.MessageTypeWhatsApp,
//		TemplateID:     templateID,
//		Vars:           map[string]string{"date": "10/05"},
//	})
package messaging

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mrlokans/consultorio/internal/entities"
)

var (
	ErrRecipientRequired = errors.New("recipient name is required")
	ErrContentRequired   = errors.New("message content is required")
	ErrInvalidType       = errors.New("message type must be whatsapp, email or sms")
	ErrContactRequired   = errors.New("recipient contact is required for this channel")
	ErrTemplateInactive  = errors.New("message template is inactive")
)

// Store persists pending messages.
type Store interface {
	CreatePending(ctx context.Context, msg *entities.Message) error
}

// TemplateStore looks up message templates.
type TemplateStore interface {
	Get(ctx context.Context, id string) (*entities.MessageTemplate, error)
}

// Draft is a message before validation. When TemplateID is set, Content,
// Subject and Type default to the template's and Vars fill its placeholders.
type Draft struct {
	RecipientName  string               `json:"recipient_name"`
	RecipientEmail string               `json:"recipient_email,omitempty"`
	RecipientPhone string               `json:"recipient_phone,omitempty"`
	Type           entities.MessageType `json:"type"`
	Subject        string               `json:"subject,omitempty"`
	Content        string               `json:"content,omitempty"`
	ScheduledFor   time.Time            `json:"scheduled_for,omitempty"`
	TemplateID     string               `json:"template_id,omitempty"`
	Vars           map[string]string    `json:"vars,omitempty"`
}

type Composer struct {
	store     Store
	templates TemplateStore
}

func NewComposer(store Store, templates TemplateStore) *Composer {
	return &Composer{store: store, templates: templates}
}

// Compose validates d and records it as a pending message.
func (c *Composer) Compose(ctx context.Context, d Draft) (*entities.Message, error) {
	if d.TemplateID != "" && c.templates != nil {
		tpl, err := c.templates.Get(ctx, d.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
		if !tpl.Active {
			return nil, ErrTemplateInactive
		}
		if d.Type == "" {
			d.Type = tpl.Type
		}
		if d.Subject == "" {
			d.Subject = tpl.Subject
		}
		if d.Content == "" {
			d.Content = tpl.Content
		}
	}

	d.RecipientName = strings.TrimSpace(d.RecipientName)
	if d.RecipientName == "" {
		return nil, ErrRecipientRequired
	}
	if !d.Type.Valid() {
		return nil, ErrInvalidType
	}

	switch d.Type {
	case entities.MessageTypeEmail:
		if strings.TrimSpace(d.RecipientEmail) == "" {
			return nil, fmt.Errorf("%w: email", ErrContactRequired)
		}
	default:
		if strings.TrimSpace(d.RecipientPhone) == "" {
			return nil, fmt.Errorf("%w: phone", ErrContactRequired)
		}
	}

	vars := map[string]string{"name": d.RecipientName}
	for k, v := range d.Vars {
		vars[k] = v
	}
	content := strings.TrimSpace(ApplyTemplate(d.Content, vars))
	if content == "" {
		return nil, ErrContentRequired
	}

	msg := &entities.Message{
		RecipientName:  d.RecipientName,
		RecipientEmail: strings.TrimSpace(d.RecipientEmail),
		RecipientPhone: strings.TrimSpace(d.RecipientPhone),
		Type:           d.Type,
		Subject:        ApplyTemplate(d.Subject, vars),
		Content:        content,
		ScheduledFor:   d.ScheduledFor,
	}
	if err := c.store.CreatePending(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// ApplyTemplate replaces {{key}} placeholders with vars[key]. Placeholders
// without a value are left as written.
func ApplyTemplate(tpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}
