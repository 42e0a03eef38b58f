package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/booking"
)

const sessionKeyBooking = "booking"

// BookingController drives the public booking flow. One booking session is
// kept per browser session.
type BookingController struct {
	service  *booking.Service
	sessions *auth.SessionManager
	auditor  Auditor
	now      func() time.Time

	// session tokens with a confirm in flight
	confirming sync.Map
}

func NewBookingController(service *booking.Service, sessions *auth.SessionManager, auditor Auditor) *BookingController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &BookingController{service: service, sessions: sessions, auditor: auditor, now: time.Now}
}

type bookingResponse struct {
	Session *booking.Session `json:"session"`
	Listing *booking.Listing `json:"listing,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (bc *BookingController) load(c *gin.Context) *booking.Session {
	if s, ok := bc.sessions.Get(c.Request.Context(), sessionKeyBooking).(booking.Session); ok {
		return &s
	}
	return booking.NewSession()
}

func (bc *BookingController) save(c *gin.Context, s *booking.Session) {
	bc.sessions.Put(c.Request.Context(), sessionKeyBooking, *s)
}

func bookingStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrIdentityIncomplete), errors.Is(err, booking.ErrNoSlotSelected):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrAlreadyConfirmed),
		errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondStep answers a step with the session, whether or not the step
// succeeded, so the client can keep what was typed.
func (bc *BookingController) respondStep(c *gin.Context, s *booking.Session, listing *booking.Listing, err error) {
	if err != nil {
		c.JSON(bookingStatus(err), bookingResponse{Session: s, Listing: listing, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookingResponse{Session: s, Listing: listing})
}

// offer lists slots from today and records them on the session.
func (bc *BookingController) offer(c *gin.Context, s *booking.Session) (*booking.Listing, error) {
	listing, err := bc.service.Slots(c.Request.Context(), bc.now())
	if err != nil {
		return nil, err
	}
	s.Offer(listing)
	return &listing, nil
}

// State handles GET /booking
func (bc *BookingController) State(c *gin.Context) {
	c.JSON(http.StatusOK, bookingResponse{Session: bc.load(c)})
}

// Slots handles GET /booking/slots
func (bc *BookingController) Slots(c *gin.Context) {
	s := bc.load(c)
	listing, err := bc.offer(c, s)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "availability_unavailable"})
		return
	}
	bc.save(c, s)
	c.JSON(http.StatusOK, bookingResponse{Session: s, Listing: listing})
}

// Identity handles POST /booking/identity with name, email, phone and notes.
// On success the available slots are offered right away.
func (bc *BookingController) Identity(c *gin.Context) {
	var id booking.Identity
	if err := c.ShouldBind(&id); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	s := bc.load(c)
	err := s.SubmitIdentity(id)
	var listing *booking.Listing
	if err == nil {
		var slotsErr error
		if listing, slotsErr = bc.offer(c, s); slotsErr != nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: slotsErr.Error(), Code: "availability_unavailable"})
			bc.save(c, s)
			return
		}
	}
	bc.save(c, s)
	bc.respondStep(c, s, listing, err)
}

type slotRequest struct {
	Date string `json:"date" form:"date" binding:"required"`
	Time string `json:"time" form:"time" binding:"required"`
}

// SelectSlot handles POST /booking/slot with date and time.
func (bc *BookingController) SelectSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "date and time are required")
		return
	}

	s := bc.load(c)
	err := s.SelectSlot(booking.Slot{Date: req.Date, Time: req.Time})
	if err == nil {
		bc.save(c, s)
	}
	bc.respondStep(c, s, nil, err)
}

// Back handles POST /booking/back
func (bc *BookingController) Back(c *gin.Context) {
	s := bc.load(c)
	err := s.Back()
	if err == nil {
		bc.save(c, s)
	}
	bc.respondStep(c, s, nil, err)
}

// stored reads the booking straight from the session store. The copy loaded
// with the request is stale when another confirm of the same session
// committed in the meantime.
func (bc *BookingController) stored(c *gin.Context, token string) *booking.Session {
	if token != "" {
		if ctx, err := bc.sessions.Load(context.Background(), token); err == nil {
			if s, ok := bc.sessions.Get(ctx, sessionKeyBooking).(booking.Session); ok {
				return &s
			}
		}
	}
	return bc.load(c)
}

// Confirm handles POST /booking/confirm. Exactly one consultation is
// recorded per confirmed session: confirms of one session run one at a time
// and each starts from the stored state.
func (bc *BookingController) Confirm(c *gin.Context) {
	token := bc.sessions.Token(c.Request.Context())
	if token != "" {
		if _, busy := bc.confirming.LoadOrStore(token, struct{}{}); busy {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "booking confirmation already in progress", Code: "confirm_in_progress"})
			return
		}
		defer bc.confirming.Delete(token)
	}

	s := bc.stored(c, token)
	if err := s.CanConfirm(); err != nil {
		bc.respondStep(c, s, nil, err)
		return
	}

	result, err := bc.service.Submit(c.Request.Context(), s)
	if err != nil {
		bc.auditor.LogBooking(c.ClientIP(), "", "Falha ao registrar agendamento", err)
		respondResourceError(c, err)
		return
	}
	bc.save(c, s)
	bc.auditor.LogBooking(c.ClientIP(), result.ConsultationID, "Agendamento "+result.Date+" "+result.Time+" para "+s.Identity.Name, nil)
	c.JSON(http.StatusCreated, bookingResponse{Session: s})
}

// Reset handles POST /booking/reset and starts a new booking.
func (bc *BookingController) Reset(c *gin.Context) {
	s := booking.NewSession()
	bc.save(c, s)
	c.JSON(http.StatusOK, bookingResponse{Session: s})
}
