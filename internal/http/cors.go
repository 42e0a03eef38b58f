package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/config"
)

// CORSMiddleware lets the listed origins call the public API and the
// booking flow with credentials. With no origins configured it does nothing.
func CORSMiddleware(cfg config.CORS) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", auth.CSRFTokenHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
