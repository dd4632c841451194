package users

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingo/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "users.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.UserSettings{}, &entities.ExerciseAttempt{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, db, cleanup
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	user, err := repo.Create(id, "learner@example.com")

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	_, err := repo.Create(id, "a@example.com")
	require.NoError(t, err)

	_, err = repo.Create(id, "b@example.com")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRepository_Create_SoftDeletedStillExists(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	_, err := repo.Create(id, "a@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(id))

	_, err = repo.Create(id, "a@example.com")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRepository_Create_Concurrent(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	id := uuid.NewString()
	const callers = 8
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(id, "learner@example.com")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrUserExists)
	}
	assert.Equal(t, 1, created)
}

func TestRepository_Get(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	_, err := repo.Create(id, "a@example.com")
	require.NoError(t, err)

	user, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = repo.Get(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_Exists(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	_, err := repo.Create(id, "")
	require.NoError(t, err)

	exists, err := repo.Exists(id)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.SoftDelete(id))

	exists, err = repo.Exists(id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_SoftDelete(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	_, err := repo.Create(id, "")
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(id))

	_, err = repo.Get(id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Second delete finds no live row
	assert.ErrorIs(t, repo.SoftDelete(id), ErrUserNotFound)
}

func TestRepository_Purge(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.NewString()
	other := uuid.NewString()
	for _, uid := range []string{id, other} {
		_, err := repo.Create(uid, "")
		require.NoError(t, err)
		require.NoError(t, db.Create(&entities.UserSettings{UserID: uid, OnboardingStep: entities.OnboardingStepNative, DailyGoal: 10}).Error)
		require.NoError(t, db.Create(&entities.ExerciseAttempt{
			UserID: uid, Language: "es", ModuleID: "basics", UnitID: "greetings", ExerciseID: "g1", Status: entities.AnswerCorrect,
		}).Error)
	}
	require.NoError(t, repo.SoftDelete(id))

	require.NoError(t, repo.Purge(id))

	var count int64
	db.Unscoped().Model(&entities.User{}).Where("id = ?", id).Count(&count)
	assert.Zero(t, count)
	db.Model(&entities.UserSettings{}).Where("user_id = ?", id).Count(&count)
	assert.Zero(t, count)
	db.Model(&entities.ExerciseAttempt{}).Where("user_id = ?", id).Count(&count)
	assert.Zero(t, count)

	// Other user's data is untouched
	db.Model(&entities.ExerciseAttempt{}).Where("user_id = ?", other).Count(&count)
	assert.Equal(t, int64(1), count)

	// Purging again is a no-op
	assert.NoError(t, repo.Purge(id))
}

func TestRepository_ListDeleted(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	live := uuid.NewString()
	deleted := uuid.NewString()
	for _, uid := range []string{live, deleted} {
		_, err := repo.Create(uid, "")
		require.NoError(t, err)
	}
	require.NoError(t, repo.SoftDelete(deleted))

	ids, err := repo.ListDeleted(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{deleted}, ids)

	ids, err = repo.ListDeleted(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
