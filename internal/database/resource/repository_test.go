package resource

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/consultorio/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_resource_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Member{},
		&entities.Role{},
		&entities.Product{},
		&entities.Message{},
		&entities.Consultation{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Member](db)
	ctx := context.Background()

	member := &entities.Member{Name: "Maria", Email: "maria@example.com", Phone: "11999990000"}
	require.NoError(t, repo.Create(ctx, member))
	assert.NotEmpty(t, member.ID)
	assert.Equal(t, entities.MemberStatusActive, member.Status)

	got, err := repo.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, "members", repo.Table())
}

func TestRepository_GetAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Member](db)
	ctx := context.Background()

	for _, m := range []entities.Member{
		{Name: "Carla", Status: entities.MemberStatusActive},
		{Name: "Ana", Status: entities.MemberStatusActive},
		{Name: "Bruno", Status: entities.MemberStatusInactive},
	} {
		m := m
		require.NoError(t, repo.Create(ctx, &m))
	}

	t.Run("returns every row without a filter", func(t *testing.T) {
		rows, err := repo.GetAll(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("narrows by equality and orders", func(t *testing.T) {
		rows, err := repo.GetAll(ctx, Filter{
			Eq:      map[string]any{"status": "active"},
			OrderBy: "name",
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Ana", rows[0].Name)
		assert.Equal(t, "Carla", rows[1].Name)
	})

	t.Run("orders descending", func(t *testing.T) {
		rows, err := repo.GetAll(ctx, Filter{OrderBy: "name", Desc: true})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Carla", rows[0].Name)
	})

	t.Run("rejects unknown columns", func(t *testing.T) {
		_, err := repo.GetAll(ctx, Filter{OrderBy: "name; DROP TABLE members"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownColumn))

		_, err = repo.GetAll(ctx, Filter{Eq: map[string]any{"nope": 1}})
		assert.True(t, errors.Is(err, ErrUnknownColumn))
	})
}

func TestRepository_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Member](db)
	ctx := context.Background()

	member := &entities.Member{Name: "Maria", Phone: "1"}
	require.NoError(t, repo.Create(ctx, member))

	t.Run("applies a partial patch and returns the fresh row", func(t *testing.T) {
		updated, err := repo.Update(ctx, member.ID, Patch{"phone": "2"})
		require.NoError(t, err)
		assert.Equal(t, "2", updated.Phone)
		assert.Equal(t, "Maria", updated.Name)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", Patch{"phone": "3"})
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("primary key cannot be patched", func(t *testing.T) {
		_, err := repo.Update(ctx, member.ID, Patch{"id": "other"})
		assert.True(t, errors.Is(err, ErrReadOnlyColumn))
	})
}

func TestRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Member](db)
	ctx := context.Background()

	member := &entities.Member{Name: "Maria"}
	require.NoError(t, repo.Create(ctx, member))

	require.NoError(t, repo.Delete(ctx, member.ID))
	_, err := repo.Get(ctx, member.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	t.Run("deleting an absent row is not an error", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, member.ID))
	})
}

func TestRepository_BackendErrorCarriesMessage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Member](db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = repo.Delete(context.Background(), "m1")
	require.Error(t, err)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "members", opErr.Table)
	assert.Equal(t, "delete", opErr.Op)
	assert.Contains(t, err.Error(), "closed")
}

func TestRepository_DuplicateRoleNamesAreAccepted(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Role](db)
	ctx := context.Background()

	first := &entities.Role{Name: "Médium"}
	second := &entities.Role{Name: "Médium"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	rows, err := repo.GetAll(ctx, Filter{Eq: map[string]any{"name": "Médium"}})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepository_ListBetween(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.Consultation](db)
	ctx := context.Background()

	for _, date := range []string{"2024-01-31", "2024-02-01", "2024-02-15", "2024-03-01"} {
		require.NoError(t, repo.Create(ctx, &entities.Consultation{ClientName: "c", Date: date}))
	}

	rows, err := repo.ListBetween(ctx, "date", "2024-02-01", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-02-01", rows[0].Date)
	assert.Equal(t, "2024-02-15", rows[1].Date)
}

func TestProducts_Stock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	products := NewProducts(db)
	ctx := context.Background()

	candle := &entities.Product{Name: "Vela", Stock: 2, MinStock: 5, Active: true}
	incense := &entities.Product{Name: "Incenso", Stock: 40, MinStock: 5, Active: true}
	require.NoError(t, products.Create(ctx, candle))
	require.NoError(t, products.Create(ctx, incense))

	t.Run("low stock uses each product's threshold", func(t *testing.T) {
		low, err := products.LowStock(ctx, 0)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "Vela", low[0].Name)
	})

	t.Run("explicit threshold overrides", func(t *testing.T) {
		low, err := products.LowStock(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, low, 2)
	})

	t.Run("adjusts stock", func(t *testing.T) {
		p, err := products.AdjustStock(ctx, candle.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 12, p.Stock)
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		_, err := products.AdjustStock(ctx, candle.ID, -100)
		assert.True(t, errors.Is(err, ErrInsufficientStock))
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := products.AdjustStock(ctx, "missing", 1)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestMessages_CreatePending(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	messages := NewMessages(db)
	ctx := context.Background()

	msg := &entities.Message{
		RecipientName: "Maria",
		Type:          entities.MessageTypeWhatsApp,
		Content:       "Olá",
		Status:        entities.MessageStatusSent,
	}
	before := time.Now().Add(-time.Second)
	require.NoError(t, messages.CreatePending(ctx, msg))

	got, err := messages.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MessageStatusPending, got.Status)
	assert.True(t, got.ScheduledFor.After(before))
}
