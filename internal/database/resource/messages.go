package resource

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/entities"
)

// Messages is the outbound message log. Rows are only ever written as
// pending; delivery status is owned by an external sender.
type Messages struct {
	*Repository[entities.Message]
}

// NewMessages creates the messages repository.
func NewMessages(db *gorm.DB) *Messages {
	return &Messages{Repository: NewRepository[entities.Message](db)}
}

// CreatePending inserts msg with status pending, scheduling it for now when
// no time was given.
func (m *Messages) CreatePending(ctx context.Context, msg *entities.Message) error {
	msg.Status = entities.MessageStatusPending
	msg.SentAt = nil
	msg.ErrorMessage = ""
	if msg.ScheduledFor.IsZero() {
		msg.ScheduledFor = time.Now()
	}
	return m.Create(ctx, msg)
}
