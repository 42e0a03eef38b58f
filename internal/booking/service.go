// Package booking implements the public consultation booking flow.
//
// A Session walks through three steps: the client enters name, email and
// phone; picks one of the offered slots; and confirms. Confirming records a
// single pending consultation. No check is made that the slot is still free
// at that moment: two clients can book the same slot concurrently, and
// arbitration is left to whoever reviews pending consultations.
//
// # Usage
//
//	svc := booking.NewService(availabilityRepo, consultations, composer, settings, true)
//	listing, err := svc.Slots(ctx, time.Now())
//	session.Offer(listing)
//	...
//	result, err := svc.Submit(ctx, session)
package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/messaging"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

// ConsultationWriter records booking intents.
type ConsultationWriter interface {
	Create(ctx context.Context, c *entities.Consultation) error
}

// Notifier records outbound confirmation messages.
type Notifier interface {
	Compose(ctx context.Context, d messaging.Draft) (*entities.Message, error)
}

// SettingsLoader supplies price, duration and notification switches.
type SettingsLoader interface {
	LoadPublic(ctx context.Context) settingsstore.Settings
}

const confirmationTemplate = "Olá {{name}}! Recebemos sua solicitação de consulta para {{date}} às {{time}}. " +
	"Entraremos em contato para confirmar."

type Service struct {
	slots         SlotSource
	consultations ConsultationWriter
	notifier      Notifier
	settings      SettingsLoader
	fallback      bool
}

// NewService wires the booking flow. When fallback is true, Slots serves
// synthetic slots if the availability source fails. notifier may be nil.
func NewService(slots SlotSource, consultations ConsultationWriter, notifier Notifier, settings SettingsLoader, fallback bool) *Service {
	return &Service{
		slots:         slots,
		consultations: consultations,
		notifier:      notifier,
		settings:      settings,
		fallback:      fallback,
	}
}

// Slots lists available slots from the given date.
func (s *Service) Slots(ctx context.Context, from time.Time) (Listing, error) {
	var err error
	if s.slots != nil {
		var slots []Slot
		slots, err = collect(s.slots.ListAvailable(ctx, from))
		if err == nil {
			return Listing{Slots: slots}, nil
		}
	} else {
		err = fmt.Errorf("no availability source configured")
	}

	if !s.fallback {
		return Listing{}, fmt.Errorf("failed to list available slots: %w", err)
	}
	log.Printf("[BOOKING] Availability unavailable, serving synthetic slots: %v", err)
	return Listing{Slots: Synthetic(from), Synthetic: true}, nil
}

// Submit records the booking and confirms the session. The session is left
// untouched when the consultation cannot be written.
func (s *Service) Submit(ctx context.Context, session *Session) (*Result, error) {
	if err := session.CanConfirm(); err != nil {
		return nil, err
	}

	cfg := settingsstore.Defaults()
	if s.settings != nil {
		cfg = s.settings.LoadPublic(ctx)
	}

	slot := *session.Selected
	consultation := &entities.Consultation{
		ClientName:    session.Identity.Name,
		ClientEmail:   session.Identity.Email,
		ClientPhone:   session.Identity.Phone,
		Date:          slot.Date,
		Time:          slot.Time,
		Duration:      cfg.ConsultationDuration,
		Price:         cfg.ConsultationPrice,
		Status:        entities.ConsultationStatusPending,
		PaymentStatus: entities.PaymentStatusPending,
		Notes:         session.Identity.Notes,
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, err
	}

	result := Result{
		ConsultationID: consultation.ID,
		Date:           slot.Date,
		Time:           slot.Time,
		Price:          consultation.Price,
		Duration:       consultation.Duration,
		Synthetic:      session.Synthetic,
	}
	if session.Synthetic {
		log.Printf("[BOOKING] Consultation %s booked on a synthetic slot %s", consultation.ID, slot.Key())
	}

	if cfg.WhatsAppNotifications && s.notifier != nil {
		_, err := s.notifier.Compose(ctx, messaging.Draft{
			RecipientName:  session.Identity.Name,
			RecipientEmail: session.Identity.Email,
			RecipientPhone: session.Identity.Phone,
			Type:           entities.MessageTypeWhatsApp,
			Content:        confirmationTemplate,
			Vars:           map[string]string{"date": displayDate(slot.Date), "time": slot.Time},
		})
		if err != nil {
			log.Printf("[BOOKING] Failed to queue confirmation message for %s: %v", consultation.ID, err)
		} else {
			result.MessageQueued = true
		}
	}

	if err := session.Confirm(result); err != nil {
		return nil, err
	}
	return &result, nil
}

// displayDate renders "2024-05-10" as "10/05/2024".
func displayDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}
