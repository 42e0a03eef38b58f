package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/consultorio/internal/database/audit"
	"github.com/mrlokans/consultorio/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	// A file database: async writes may use a different pooled connection.
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventCreate,
		Action:    "members_create",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, svc.Log(context.Background(), event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "members_create", saved.Action)
}

func TestService_LogMutation(t *testing.T) {
	svc, db := setupTestService(t)
	actor := Actor{UserID: 1, IPAddress: "192.168.1.1", UserAgent: "Mozilla/5.0"}

	t.Run("successful delete", func(t *testing.T) {
		svc.LogMutation(actor, entities.AuditEventDelete, "products", "p1", "Produto excluído: Vela", nil)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "products_delete").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "products", event.EntityType)
		assert.Equal(t, "p1", event.EntityID)
		assert.Equal(t, "192.168.1.1", event.IPAddress)
	})

	t.Run("failed delete keeps the backend message", func(t *testing.T) {
		svc.LogMutation(actor, entities.AuditEventDelete, "members", "m1", "", errors.New("violates foreign key constraint"))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "members_delete").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "foreign key")
	})
}

func TestService_LogSettings(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogSettings(Actor{UserID: 1}, []string{"site_name", "consultation_price"}, nil)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "settings_save").First(&event).Error)
	assert.Equal(t, entities.AuditEventSettings, event.EventType)
	assert.Contains(t, event.Metadata, "consultation_price")
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAuth(0, "login_failed", "10.0.0.1", "curl/7.68.0", false)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "login_failed").First(&event).Error)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
}

func TestService_LogBookingAndExport(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogBooking("10.0.0.2", "c1", "Consulta solicitada por Maria", nil)
	svc.LogExport(Actor{UserID: 1}, "csv", "current_month", nil)
	svc.Wait()

	events, total, err := svc.ListEvents(context.Background(), auditRepo.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	actions := []string{events[0].Action, events[1].Action}
	assert.ElementsMatch(t, []string{"booking_submit", "report_export_csv"}, actions)

	var booking entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventBooking).First(&booking).Error)
	assert.Zero(t, booking.UserID)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{Action: "new", CreatedAt: time.Now()}).Error)

	deleted, err := svc.DeleteOldEvents(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, truncate(tc.input, tc.maxLen))
	}
}
