package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Query narrows a listing. Zero values mean "any".
type Query struct {
	UserID     uint
	EventType  entities.AuditEventType
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListEvents returns one page of events, most recent first, and the total
// number of matching events.
func (r *Repository) ListEvents(ctx context.Context, q Query) ([]entities.AuditEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if q.UserID > 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.EventType != "" {
		query = query.Where("event_type = ?", q.EventType)
	}
	if q.EntityType != "" {
		query = query.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != "" {
		query = query.Where("entity_id = ?", q.EntityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	offset := max(q.Offset, 0)

	var events []entities.AuditEvent
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
