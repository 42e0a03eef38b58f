package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/messaging"
)

type MessagesController struct {
	composer *messaging.Composer
	auditor  Auditor
}

func NewMessagesController(composer *messaging.Composer, auditor Auditor) *MessagesController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &MessagesController{composer: composer, auditor: auditor}
}

// Compose handles POST /api/admin/messages/compose. The message is only
// recorded as pending; nothing is sent.
func (mc *MessagesController) Compose(c *gin.Context) {
	var draft messaging.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	msg, err := mc.composer.Compose(c.Request.Context(), draft)
	var id string
	if msg != nil {
		id = msg.ID
	}
	mc.auditor.LogMutation(actor(c), entities.AuditEventCreate, "messages", id, "Mensagem registrada para "+draft.RecipientName, err)
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrRecipientRequired),
			errors.Is(err, messaging.ErrContentRequired),
			errors.Is(err, messaging.ErrInvalidType),
			errors.Is(err, messaging.ErrContactRequired),
			errors.Is(err, messaging.ErrTemplateInactive):
			respondBadRequest(c, err.Error())
		default:
			respondResourceError(c, err)
		}
		return
	}
	respondCreated(c, msg)
}
