package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/audit"
	"github.com/mrlokans/consultorio/internal/entities"
)

// Auditor records back office actions. audit.Service implements it.
type Auditor interface {
	LogMutation(actor audit.Actor, eventType entities.AuditEventType, resource, entityID, description string, err error)
	LogSettings(actor audit.Actor, keys []string, err error)
	LogExport(actor audit.Actor, format, period string, err error)
	LogBooking(ipAddr, consultationID, description string, err error)
}

type nopAuditor struct{}

func (nopAuditor) LogMutation(audit.Actor, entities.AuditEventType, string, string, string, error) {}
func (nopAuditor) LogSettings(audit.Actor, []string, error)                                        {}
func (nopAuditor) LogExport(audit.Actor, string, string, error)                                    {}
func (nopAuditor) LogBooking(string, string, string, error)                                        {}

// reserved query parameters of the list endpoint; everything else that
// names a schema field is an equality filter.
var listParams = map[string]bool{"q": true, "sort": true, "dir": true}

// ResourceController serves the list/create/update/delete endpoints of one
// admin table.
type ResourceController[T any] struct {
	table   *admin.Table[T]
	auditor Auditor
}

func NewResourceController[T any](table *admin.Table[T], auditor Auditor) *ResourceController[T] {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &ResourceController[T]{table: table, auditor: auditor}
}

// Register mounts the controller under /<resource>.
func (rc *ResourceController[T]) Register(group *gin.RouterGroup) {
	path := "/" + rc.table.Schema().Resource
	group.GET(path, rc.List)
	group.POST(path, rc.Create)
	group.PATCH(path+"/:id", rc.Update)
	group.DELETE(path+"/:id", rc.Delete)
}

// List handles GET /api/admin/<resource>?q=&sort=&dir=&<field>=
// The full table is reloaded from the backend on every call.
func (rc *ResourceController[T]) List(c *gin.Context) {
	if err := rc.table.Load(c.Request.Context()); err != nil {
		respondResourceError(c, err)
		return
	}

	schema := rc.table.Schema()
	q := admin.Query{
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
		Desc:   c.Query("dir") == "desc",
	}
	for key, values := range c.Request.URL.Query() {
		if listParams[key] || len(values) == 0 {
			continue
		}
		if _, ok := schema.Field(key); !ok {
			respondBadRequest(c, "unknown filter: "+key)
			return
		}
		if q.Eq == nil {
			q.Eq = make(map[string]string)
		}
		q.Eq[key] = values[0]
	}

	rows := rc.table.Visible(q)
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, ListResponse{
		Resource: schema.Resource,
		Data:     rows,
		Total:    rc.table.Len(),
		Count:    len(rows),
	})
}

// Create handles POST /api/admin/<resource> with a JSON object body.
func (rc *ResourceController[T]) Create(c *gin.Context) {
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	row, err := rc.table.Create(c.Request.Context(), values)
	schema := rc.table.Schema()
	rc.auditor.LogMutation(actor(c), entities.AuditEventCreate, schema.Resource, rowID(row), schema.Title+" criado", err)
	if err != nil {
		respondResourceError(c, err)
		return
	}
	respondCreated(c, row)
}

// Update handles PATCH /api/admin/<resource>/:id with a partial JSON body.
func (rc *ResourceController[T]) Update(c *gin.Context) {
	id := c.Param("id")
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	row, err := rc.table.Update(c.Request.Context(), id, patch)
	schema := rc.table.Schema()
	rc.auditor.LogMutation(actor(c), entities.AuditEventUpdate, schema.Resource, id, schema.Title+" atualizado", err)
	if err != nil {
		respondResourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /api/admin/<resource>/:id.
func (rc *ResourceController[T]) Delete(c *gin.Context) {
	id := c.Param("id")

	err := rc.table.Delete(c.Request.Context(), id)
	schema := rc.table.Schema()
	rc.auditor.LogMutation(actor(c), entities.AuditEventDelete, schema.Resource, id, schema.Title+" excluído", err)
	if err != nil {
		respondResourceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func rowID[T any](row *T) string {
	if row == nil {
		return ""
	}
	if r, ok := any(row).(interface{ RowID() string }); ok {
		return r.RowID()
	}
	return ""
}

// registerResources mounts every admin table.
func registerResources(group *gin.RouterGroup, t *admin.Tables, auditor Auditor) {
	NewResourceController(t.Members, auditor).Register(group)
	NewResourceController(t.Consultations, auditor).Register(group)
	NewResourceController(t.Availability, auditor).Register(group)
	NewResourceController(t.Products, auditor).Register(group)
	NewResourceController(t.ProductCategories, auditor).Register(group)
	NewResourceController(t.Orders, auditor).Register(group)
	NewResourceController(t.OrderItems, auditor).Register(group)
	NewResourceController(t.BlogPosts, auditor).Register(group)
	NewResourceController(t.Cults, auditor).Register(group)
	NewResourceController(t.Messages, auditor).Register(group)
	NewResourceController(t.MessageTemplates, auditor).Register(group)
	NewResourceController(t.Roles, auditor).Register(group)
	NewResourceController(t.EntityTypes, auditor).Register(group)
	NewResourceController(t.Entities, auditor).Register(group)

	group.GET("/schemas", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"schemas": admin.All()})
	})
}
