package http

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/settingsstore"
)

type SettingsController struct {
	store   *settingsstore.Store
	auditor Auditor
}

func NewSettingsController(store *settingsstore.Store, auditor Auditor) *SettingsController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &SettingsController{store: store, auditor: auditor}
}

// Get handles GET /api/admin/settings. When the table cannot be read the
// defaults are returned together with the error so the form still renders.
func (sc *SettingsController) Get(c *gin.Context) {
	settings, err := sc.store.LoadAdmin(c.Request.Context())
	resp := gin.H{"settings": settings.Map()}
	if err != nil {
		resp["error"] = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}

	fields, err := sc.store.Describe(c.Request.Context())
	if err == nil {
		resp["fields"] = fields
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/admin/settings with a flat JSON object. Values
// must be strings, numbers or booleans.
func (sc *SettingsController) Update(c *gin.Context) {
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}
	if len(values) == 0 {
		respondBadRequest(c, "no settings provided")
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := sc.store.Save(c.Request.Context(), values)
	sc.auditor.LogSettings(actor(c), keys, err)
	if err != nil {
		if errors.Is(err, settingsstore.ErrUnsupportedValue) {
			respondBadRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "backend_error"})
		return
	}

	settings, _ := sc.store.LoadAdmin(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Configurações salvas com sucesso", "settings": settings.Map()})
}
