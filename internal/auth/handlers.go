package auth

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/entities"
)

// setupMutex serializes setup requests so two callers cannot both create
// the first administrator.
var setupMutex sync.Mutex

// isLocalPath reports whether path is safe to redirect to: it must be an
// absolute local path with no scheme, host or backslash.
func isLocalPath(path string) bool {
	switch {
	case path == "",
		!strings.HasPrefix(path, "/"),
		strings.HasPrefix(path, "//"),
		strings.Contains(path, "://"),
		strings.Contains(path, "\\"):
		return false
	}
	return true
}

func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/admin"
}

// Auditor receives authentication events.
type Auditor interface {
	LogAuth(userID uint, action string, ipAddr, userAgent string, success bool)
}

type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	limiter        *LoginLimiter
	auditor        Auditor
}

// NewAuthController wires the login endpoints. auditor may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth, auditor Auditor) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		limiter: NewLoginLimiter(LimiterConfig{
			MaxAttempts: cfg.MaxLoginAttempts,
			Window:      cfg.RateLimitWindow,
			Lockout:     cfg.LockoutDuration,
		}),
		auditor: auditor,
	}
}

// RegisterRoutes registers the login, logout and first-run setup routes.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/auth/csrf", ac.CSRFToken)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/setup", ac.SetupStatus)
	router.POST("/setup", ac.Setup)
}

// Stop releases the limiter goroutine.
func (ac *AuthController) Stop() {
	ac.limiter.Stop()
}

func (ac *AuthController) audit(c *gin.Context, userID uint, action string, success bool) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
	}
}

type loginRequest struct {
	Login    string `json:"login" form:"login"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

func (r loginRequest) name() string {
	if r.Login != "" {
		return r.Login
	}
	return r.Username
}

type userView struct {
	ID       uint              `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     entities.UserRole `json:"role"`
}

func viewOf(u *entities.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// CSRFToken hands out the token clients must echo in X-CSRF-Token.
// GET /auth/csrf
func (ac *AuthController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": GetCSRFToken(c)})
}

// Login checks credentials and starts a session.
// POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login request"})
		return
	}
	login := strings.TrimSpace(req.name())
	clientIP := c.ClientIP()

	if allowed, retryAfter := ac.limiter.Allow(clientIP, login); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), login, req.Password)
	if err != nil {
		ac.limiter.RecordFailure(clientIP, login)
		ac.audit(c, 0, "login_failed", false)

		switch {
		case errors.Is(err, ErrAccountLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "account is locked, try again later"})
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		default:
			log.Printf("Login failed for %q: %v", login, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	ac.limiter.RecordSuccess(clientIP, login)
	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	ac.audit(c, user.ID, "login", true)

	c.JSON(http.StatusOK, gin.H{"user": viewOf(user), "next": sanitizeRedirectPath(req.Next)})
}

// Logout destroys the session.
// POST /logout
func (ac *AuthController) Logout(c *gin.Context) {
	userID := ac.sessionManager.GetUserID(c.Request)
	_ = ac.sessionManager.DestroySession(c.Request)
	if userID != 0 {
		ac.audit(c, userID, "logout", true)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// SetupStatus tells a client whether the first administrator still has to
// be created.
// GET /setup
func (ac *AuthController) SetupStatus(c *gin.Context) {
	hasUsers, err := ac.service.HasUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"setup_required": !hasUsers})
}

type setupRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Setup creates the first administrator. It is refused once any user exists.
// POST /setup
func (ac *AuthController) Setup(c *gin.Context) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	ctx := c.Request.Context()
	hasUsers, err := ac.service.HasUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if hasUsers {
		c.JSON(http.StatusConflict, gin.H{"error": "setup already completed"})
		return
	}

	var req setupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setup request"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	user, err := ac.service.CreateUser(ctx, req.Username, req.Email, req.Password, entities.UserRoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong),
			errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrUsernameInvalid),
			errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Setup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session after setup: %v", err)
	}
	ac.audit(c, user.ID, "setup", true)
	c.JSON(http.StatusCreated, gin.H{"user": viewOf(user)})
}

// Me returns the signed-in user.
// GET /api/admin/me
func (ac *AuthController) Me(c *gin.Context) {
	if GetAuthType(c) == AuthTypeNone {
		c.JSON(http.StatusOK, gin.H{"user": nil, "auth": "none", "csrf_token": GetCSRFToken(c)})
		return
	}
	user, err := ac.service.GetUserByID(c.Request.Context(), GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": viewOf(user), "auth": "session", "csrf_token": GetCSRFToken(c)})
}
