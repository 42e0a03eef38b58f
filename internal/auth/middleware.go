package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
)

// DefaultUserID is used when authentication is disabled
const DefaultUserID = uint(0)

// Middleware guards the back office routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
}

func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
	}
}

// Handler authenticates every request of the group it is attached to. In
// "none" mode every request runs as DefaultUserID with the admin role.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode != config.AuthModeLocal {
		return func(c *gin.Context) {
			c.Set(ContextKeyUserID, DefaultUserID)
			c.Set(ContextKeyRole, entities.UserRoleAdmin)
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if user := m.trySessionAuth(c); user != nil {
			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyUsername, user.Username)
			c.Set(ContextKeyRole, user.Role)
			c.Set(ContextKeyAuthType, AuthTypeSession)
			c.Next()
			return
		}

		if isAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireRole returns a middleware that requires one of roles.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		if !roleSet[GetUserRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// RequireWriter rejects mutating requests from viewers. Safe methods pass.
func (m *Middleware) RequireWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		user := entities.User{Role: GetUserRole(c)}
		if !user.CanWrite() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "read-only account",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns DefaultUserID when unauthenticated or auth is disabled.
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return DefaultUserID
}

func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

func GetUserRole(c *gin.Context) entities.UserRole {
	if r, ok := c.Get(ContextKeyRole); ok {
		if role, ok := r.(entities.UserRole); ok {
			return role
		}
	}
	return ""
}

func GetAuthType(c *gin.Context) AuthType {
	if t, ok := c.Get(ContextKeyAuthType); ok {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
