package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/consultorio/internal/config"
)

func corsRouter(cfg config.CORS) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/api/public/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"site_name": "Templo"})
	})
	return router
}

func TestCORSMiddleware(t *testing.T) {
	router := corsRouter(config.CORS{AllowedOrigins: []string{"https://templo.example"}})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/public/settings", nil)
		req.Header.Set("Origin", "https://templo.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://templo.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/public/settings", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/booking/confirm", nil)
		req.Header.Set("Origin", "https://templo.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://templo.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSMiddleware_Disabled(t *testing.T) {
	router := corsRouter(config.CORS{})

	req := httptest.NewRequest("GET", "/api/public/settings", nil)
	req.Header.Set("Origin", "https://templo.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
