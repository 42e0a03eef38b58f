package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/consultorio/internal/admin"
	"github.com/mrlokans/consultorio/internal/database/resource"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   int
		wantOK bool
		code   int
	}{
		{"absent uses default", "/", 20, true, http.StatusOK},
		{"valid value", "/?limit=5", 5, true, http.StatusOK},
		{"invalid value", "/?limit=abc", 0, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tt.url, nil)

			got, ok := parseIntQuery(c, "limit", 20)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRespondResourceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains string
	}{
		{"busy", admin.ErrBusy, http.StatusConflict, `"code":"busy"`},
		{
			"validation",
			&admin.ValidationError{Resource: "members", Fields: map[string]string{"name": "required"}},
			http.StatusBadRequest,
			`"name":"required"`,
		},
		{
			"not found",
			&resource.OperationError{Table: "members", Op: "update", Err: resource.ErrNotFound},
			http.StatusNotFound,
			`"code":"not_found"`,
		},
		{
			"unknown column",
			fmt.Errorf("%w: colour", resource.ErrUnknownColumn),
			http.StatusBadRequest,
			"colour",
		},
		{
			"backend failure keeps message",
			&resource.OperationError{Table: "members", Op: "insert", Err: errors.New("UNIQUE constraint failed: members.email")},
			http.StatusInternalServerError,
			"UNIQUE constraint failed",
		},
		{"unexpected error is hidden", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			respondResourceError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRespondAccepted(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondAccepted(c, "queued", gin.H{"task_id": "abc"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"task_id":"abc"`)
}
