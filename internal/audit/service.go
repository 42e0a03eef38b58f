// Package audit records who changed what in the back office.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/consultorio/internal/database/audit"
	"github.com/mrlokans/consultorio/internal/entities"
)

// Actor identifies the user and client behind an event.
type Actor struct {
	UserID    uint
	IPAddress string
	UserAgent string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background. The write is detached
// from any request context.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func newEvent(actor Actor, eventType entities.AuditEventType, action string) *entities.AuditEvent {
	return &entities.AuditEvent{
		UserID:    actor.UserID,
		EventType: eventType,
		Action:    action,
		IPAddress: actor.IPAddress,
		UserAgent: truncate(actor.UserAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}
}

func markFailed(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), 500)
}

// LogMutation records a create, update or delete on a resource table.
func (s *Service) LogMutation(actor Actor, eventType entities.AuditEventType, resource, entityID, description string, err error) {
	event := newEvent(actor, eventType, resource+"_"+string(eventType))
	event.EntityType = resource
	event.EntityID = entityID
	event.Description = truncate(description, 500)
	markFailed(event, err)
	s.LogAsync(event)
}

// LogSettings records a settings save with the keys that were written.
func (s *Service) LogSettings(actor Actor, keys []string, err error) {
	event := newEvent(actor, entities.AuditEventSettings, "settings_save")
	event.EntityType = "system_settings"
	event.Description = "Configurações atualizadas"
	if b, e := json.Marshal(map[string]any{"keys": keys}); e == nil {
		event.Metadata = string(b)
	}
	markFailed(event, err)
	s.LogAsync(event)
}

// LogExport records a report export.
func (s *Service) LogExport(actor Actor, format, period string, err error) {
	event := newEvent(actor, entities.AuditEventExport, "report_export_"+format)
	event.Description = "Relatório financeiro: " + period
	markFailed(event, err)
	s.LogAsync(event)
}

// LogBooking records a public booking submission. There is no user.
func (s *Service) LogBooking(ipAddr, consultationID, description string, err error) {
	event := newEvent(Actor{IPAddress: ipAddr}, entities.AuditEventBooking, "booking_submit")
	event.EntityType = "consultations"
	event.EntityID = consultationID
	event.Description = truncate(description, 500)
	markFailed(event, err)
	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action string, ipAddr, userAgent string, success bool) {
	event := newEvent(Actor{UserID: userID, IPAddress: ipAddr, UserAgent: userAgent}, entities.AuditEventAuth, action)
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// ListEvents retrieves paginated audit events.
func (s *Service) ListEvents(ctx context.Context, q audit.Query) ([]entities.AuditEvent, int64, error) {
	return s.repo.ListEvents(ctx, q)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
