package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/consultorio/internal/entities"
)

type mockStore struct {
	created []*entities.Message
	err     error
}

func (m *mockStore) CreatePending(ctx context.Context, msg *entities.Message) error {
	if m.err != nil {
		return m.err
	}
	msg.Status = entities.MessageStatusPending
	m.created = append(m.created, msg)
	return nil
}

type mockTemplates struct {
	templates map[string]*entities.MessageTemplate
}

func (m *mockTemplates) Get(ctx context.Context, id string) (*entities.MessageTemplate, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func TestApplyTemplate(t *testing.T) {
	vars := map[string]string{"name": "Maria", "date": "10/05"}

	assert.Equal(t, "Olá Maria, até 10/05!", ApplyTemplate("Olá {{name}}, até {{ date }}!", vars))
	assert.Equal(t, "Olá {{ unknown }}", ApplyTemplate("Olá {{ unknown }}", vars))
	assert.Equal(t, "", ApplyTemplate("", vars))
}

func TestCompose(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending message", func(t *testing.T) {
		store := &mockStore{}
		c := NewComposer(store, nil)

		msg, err := c.Compose(ctx, Draft{
			RecipientName:  "Maria",
			RecipientPhone: "5511999990000",
			Type:           entities.MessageTypeWhatsApp,
			Content:        "Olá {{name}}",
		})
		require.NoError(t, err)
		assert.Equal(t, "Olá Maria", msg.Content)
		assert.Equal(t, entities.MessageStatusPending, msg.Status)
		assert.Len(t, store.created, 1)
	})

	t.Run("fills content from a template", func(t *testing.T) {
		store := &mockStore{}
		templates := &mockTemplates{templates: map[string]*entities.MessageTemplate{
			"t1": {Name: "lembrete", Type: entities.MessageTypeEmail, Subject: "Lembrete {{name}}", Content: "Sua consulta é {{date}}", Active: true},
		}}
		c := NewComposer(store, templates)

		msg, err := c.Compose(ctx, Draft{
			RecipientName:  "João",
			RecipientEmail: "joao@example.com",
			TemplateID:     "t1",
			Vars:           map[string]string{"date": "amanhã"},
		})
		require.NoError(t, err)
		assert.Equal(t, entities.MessageTypeEmail, msg.Type)
		assert.Equal(t, "Lembrete João", msg.Subject)
		assert.Equal(t, "Sua consulta é amanhã", msg.Content)
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		tests := []struct {
			name  string
			draft Draft
			want  error
		}{
			{"missing recipient", Draft{Type: "sms", RecipientPhone: "1", Content: "x"}, ErrRecipientRequired},
			{"bad type", Draft{RecipientName: "a", Type: "fax", Content: "x"}, ErrInvalidType},
			{"email without address", Draft{RecipientName: "a", Type: "email", Content: "x"}, ErrContactRequired},
			{"sms without phone", Draft{RecipientName: "a", Type: "sms", Content: "x"}, ErrContactRequired},
			{"empty content", Draft{RecipientName: "a", Type: "sms", RecipientPhone: "1", Content: "  "}, ErrContentRequired},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := &mockStore{}
				_, err := NewComposer(store, nil).Compose(ctx, tt.draft)
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
				assert.Empty(t, store.created)
			})
		}
	})

	t.Run("inactive template is rejected", func(t *testing.T) {
		templates := &mockTemplates{templates: map[string]*entities.MessageTemplate{
			"old": {Content: "x", Type: entities.MessageTypeSMS},
		}}
		_, err := NewComposer(&mockStore{}, templates).Compose(ctx, Draft{
			RecipientName: "a", RecipientPhone: "1", TemplateID: "old",
		})
		assert.True(t, errors.Is(err, ErrTemplateInactive))
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := &mockStore{err: errors.New("insert messages: disk full")}
		_, err := NewComposer(store, nil).Compose(ctx, Draft{
			RecipientName: "a", RecipientPhone: "1", Type: "sms", Content: "x",
		})
		assert.EqualError(t, err, "insert messages: disk full")
	})
}
