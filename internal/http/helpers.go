package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/audit"
	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/notify"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse wraps a filtered resource list. Total counts the rows loaded
// from the backend, Count the rows left after filtering.
type ListResponse struct {
	Resource string `json:"resource"`
	Data     any    `json:"data"`
	Total    int    `json:"total"`
	Count    int    `json:"count"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: what + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondResourceError maps data layer errors to status codes. Backend
// failures keep the backend's message so the back office can show it.
func respondResourceError(c *gin.Context, err error) {
	var validation *admin.ValidationError
	var operation *resource.OperationError

	switch {
	case errors.Is(err, admin.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "busy"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation", Details: validation.Fields})
	case errors.Is(err, resource.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, resource.ErrUnknownColumn), errors.Is(err, resource.ErrReadOnlyColumn):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_field"})
	case errors.As(err, &operation):
		log.Printf("Backend error (%s %s): %v", operation.Op, operation.Table, operation.Err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "backend_error"})
	default:
		respondInternalError(c, err, c.FullPath())
	}
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIntQuery reads an integer query parameter, falling back to def when
// it is absent. Invalid values get a 400 response and ok=false.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// actor identifies the caller for audit records.
func actor(c *gin.Context) audit.Actor {
	return audit.Actor{
		UserID:    auth.GetUserID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// recipient names the admin that actions and notifications belong to: the
// signed-in user, or the client address when authentication is off.
func recipient(c *gin.Context) string {
	if auth.GetAuthType(c) == auth.AuthTypeSession {
		return "user:" + strconv.FormatUint(uint64(auth.GetUserID(c)), 10)
	}
	return "ip:" + c.ClientIP()
}

// scopeToCaller attaches the recipient to the request context so admin
// tables debounce and report per caller.
func scopeToCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(notify.WithRecipient(c.Request.Context(), recipient(c)))
		c.Next()
	}
}
