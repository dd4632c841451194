package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingo/internal/entities"
)

const (
	userA = "3a5c7e9b-1d2f-4a6c-8e0b-2d4f6a8c0e1a"
	userB = "5b7d9f1a-3c4e-4b8d-9f2a-4e6a8c0e2b3c"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.AuditEvent{
		UserID:      userA,
		EventType:   entities.AuditEventUser,
		Action:      "user_create",
		Description: "User created by auth service",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			UserID:    userA,
			EventType: entities.AuditEventSettings,
			Action:    "settings_update",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userB, EventType: entities.AuditEventUser, Action: "user_create"}))

	events, total, err := repo.GetEvents(userA, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, events, 10)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))

	events, _, err = repo.GetEvents(userA, 10, 10)
	require.NoError(t, err)
	assert.Len(t, events, 5)

	_, total, err = repo.GetEvents("", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(16), total)
}

func TestRepository_GetEventsByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userA, EventType: entities.AuditEventUser, Action: "user_create"}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userA, EventType: entities.AuditEventProgress, Action: "progress_reset"}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userB, EventType: entities.AuditEventProgress, Action: "progress_reset"}))

	events, total, err := repo.GetEventsByType(entities.AuditEventProgress, userA, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "progress_reset", events[0].Action)

	_, total, err = repo.GetEventsByType(entities.AuditEventProgress, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userA, Action: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: userA, Action: "recent"}))

	deleted, err := repo.DeleteOldEvents(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, _, err := repo.GetEvents(userA, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "recent", events[0].Action)
}
