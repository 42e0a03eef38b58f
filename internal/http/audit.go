package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	auditrepo "github.com/mrlokans/consultorio/internal/database/audit"
	"github.com/mrlokans/consultorio/internal/entities"
)

// AuditLister pages through recorded audit events.
type AuditLister interface {
	ListEvents(ctx context.Context, q auditrepo.Query) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	events AuditLister
}

func NewAuditController(events AuditLister) *AuditController {
	return &AuditController{events: events}
}

type EventTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/admin/audit?page=&limit=&type=&entity_type=&entity_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", 25)
	if !ok {
		return
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	events, total, err := ac.events.ListEvents(c.Request.Context(), auditrepo.Query{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
		"event_types":  eventTypes(),
	})
}

func eventTypes() []EventTypeOption {
	return []EventTypeOption{
		{Value: "", Label: "Todos"},
		{Value: string(entities.AuditEventCreate), Label: "Criação"},
		{Value: string(entities.AuditEventUpdate), Label: "Alteração"},
		{Value: string(entities.AuditEventDelete), Label: "Exclusão"},
		{Value: string(entities.AuditEventSettings), Label: "Configurações"},
		{Value: string(entities.AuditEventExport), Label: "Exportação"},
		{Value: string(entities.AuditEventBooking), Label: "Agendamento"},
		{Value: string(entities.AuditEventAuth), Label: "Autenticação"},
	}
}
