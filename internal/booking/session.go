package booking

import (
	"encoding/gob"
	"errors"
	"fmt"
	"strings"
)

type State string

const (
	StateForm          State = "form"
	StateSlotSelection State = "slot_selection"
	StateConfirmed     State = "confirmed"
)

var (
	ErrIdentityIncomplete = errors.New("name, email and phone are required")
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrNoSlotSelected     = errors.New("no slot selected")
	ErrAlreadyConfirmed   = errors.New("booking already confirmed")
	ErrInvalidTransition  = errors.New("action not allowed in the current step")
)

func init() {
	// Sessions are stored in scs, which gob-encodes values
	gob.Register(Session{})
}

// Identity is what the client types on the first step.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

func (id Identity) normalized() Identity {
	return Identity{
		Name:  strings.TrimSpace(id.Name),
		Email: strings.TrimSpace(id.Email),
		Phone: strings.TrimSpace(id.Phone),
		Notes: strings.TrimSpace(id.Notes),
	}
}

func (id Identity) missing() []string {
	var missing []string
	if id.Name == "" {
		missing = append(missing, "name")
	}
	if id.Email == "" {
		missing = append(missing, "email")
	}
	if id.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Result is the outcome of a confirmed booking.
type Result struct {
	ConsultationID string  `json:"consultation_id"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Price          float64 `json:"price"`
	Duration       int     `json:"duration"`
	Synthetic      bool    `json:"synthetic"`
	MessageQueued  bool    `json:"message_queued"`
}

// Session is one booking attempt: form, then slot selection, then a
// terminal confirmation. A confirmed session is never reopened; a new
// booking starts from NewSession.
type Session struct {
	State     State    `json:"state"`
	Identity  Identity `json:"identity"`
	Offered   []Slot   `json:"offered,omitempty"`
	Synthetic bool     `json:"synthetic"`
	Selected  *Slot    `json:"selected,omitempty"`
	Result    *Result  `json:"result,omitempty"`
}

func NewSession() *Session {
	return &Session{State: StateForm}
}

// SubmitIdentity moves from the form to slot selection when name, email
// and phone are all present. On failure the session stays on the form with
// the entered values kept.
func (s *Session) SubmitIdentity(id Identity) error {
	switch s.State {
	case StateConfirmed:
		return ErrAlreadyConfirmed
	case StateForm:
	default:
		return ErrInvalidTransition
	}

	s.Identity = id.normalized()
	if missing := s.Identity.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIdentityIncomplete, strings.Join(missing, ", "))
	}
	s.State = StateSlotSelection
	return nil
}

// Offer records the slots shown to the client. A previous selection that
// is no longer offered is dropped.
func (s *Session) Offer(l Listing) {
	s.Offered = l.Slots
	s.Synthetic = l.Synthetic
	if s.Selected != nil && !s.isOffered(*s.Selected) {
		s.Selected = nil
	}
}

func (s *Session) isOffered(slot Slot) bool {
	for _, o := range s.Offered {
		if o.Date == slot.Date && o.Time == slot.Time {
			return o.Available
		}
	}
	return false
}

// SelectSlot replaces the current selection. Only available slots from the
// last offer can be selected.
func (s *Session) SelectSlot(slot Slot) error {
	switch s.State {
	case StateConfirmed:
		return ErrAlreadyConfirmed
	case StateSlotSelection:
	default:
		return ErrInvalidTransition
	}

	if !s.isOffered(slot) {
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, slot.Key())
	}
	selected := Slot{Date: slot.Date, Time: slot.Time, Available: true}
	s.Selected = &selected
	return nil
}

// Back returns to the form keeping the identity fields.
func (s *Session) Back() error {
	switch s.State {
	case StateConfirmed:
		return ErrAlreadyConfirmed
	case StateSlotSelection:
		s.State = StateForm
		return nil
	default:
		return ErrInvalidTransition
	}
}

// CanConfirm reports why the session cannot be confirmed yet, if it can't.
func (s *Session) CanConfirm() error {
	switch s.State {
	case StateConfirmed:
		return ErrAlreadyConfirmed
	case StateSlotSelection:
	default:
		return ErrInvalidTransition
	}
	if missing := s.Identity.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIdentityIncomplete, strings.Join(missing, ", "))
	}
	if s.Selected == nil {
		return ErrNoSlotSelected
	}
	return nil
}

// Confirm moves the session to its terminal state with the booking result.
func (s *Session) Confirm(r Result) error {
	if err := s.CanConfirm(); err != nil {
		return err
	}
	s.Result = &r
	s.State = StateConfirmed
	return nil
}
