package http

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/booking"
	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/entities"
)

type fixedSlots []entities.AvailabilitySlot

func (f fixedSlots) ListAvailable(ctx context.Context, from time.Time) iter.Seq2[entities.AvailabilitySlot, error] {
	return func(yield func(entities.AvailabilitySlot, error) bool) {
		for _, s := range f {
			if !yield(s, nil) {
				return
			}
		}
	}
}

// slowConsultations holds the first insert until release is closed.
type slowConsultations struct {
	inserts atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (s *slowConsultations) Create(ctx context.Context, c *entities.Consultation) error {
	if s.inserts.Add(1) == 1 {
		close(s.entered)
		<-s.release
	}
	c.ID = "c1"
	return nil
}

func TestBookingConfirmRunsOncePerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions, err := auth.NewSessionManager(nil, config.Auth{})
	require.NoError(t, err)

	consultations := &slowConsultations{entered: make(chan struct{}), release: make(chan struct{})}
	slots := fixedSlots{{Date: "2030-03-04", Time: "10:00", Available: true}}
	bc := NewBookingController(booking.NewService(slots, consultations, nil, nil, false), sessions, nil)

	router := gin.New()
	router.Use(sessions.LoadAndCommit())
	router.POST("/booking/identity", bc.Identity)
	router.POST("/booking/slot", bc.SelectSlot)
	router.POST("/booking/confirm", bc.Confirm)

	post := func(path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := post("/booking/identity", map[string]any{"name": "Ana", "email": "ana@example.com", "phone": "+55 11 98888-7777"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = post("/booking/slot", map[string]any{"date": "2030-03-04", "time": "10:00"}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- post("/booking/confirm", nil, cookies) }()
	<-consultations.entered

	w = post("/booking/confirm", nil, cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "confirm_in_progress")

	close(consultations.release)
	w = <-first
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A later confirm carrying the same cookie sees the stored confirmation.
	w = post("/booking/confirm", nil, cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(1), consultations.inserts.Load())
}
