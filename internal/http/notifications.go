package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/notify"
)

// Notifications handles GET /api/admin/notifications. The caller's pending
// notifications are returned once and then cleared.
func Notifications(buf *notify.Buffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := buf.Drain(notify.Recipient(c.Request.Context()))
		if items == nil {
			items = []notify.Notification{}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": items})
	}
}
