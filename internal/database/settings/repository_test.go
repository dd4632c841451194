package settings

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingo/internal/entities"
)

const testUser = "9b2f6c1e-8d4a-4c3b-a1f0-3e5d7c9b1a20"

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.UserSettings{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, cleanup
}

func ptr[T any](v T) *T {
	return &v
}

// onboarded creates settings for testUser with both languages and a level set.
func onboarded(t *testing.T, repo *Repository) {
	t.Helper()
	_, err := repo.Create(testUser)
	require.NoError(t, err)
	_, err = repo.Update(testUser, Update{
		NativeLanguage: ptr("en"),
		TargetLanguage: ptr("es"),
		Level:          ptr("beginner"),
	})
	require.NoError(t, err)
	_, err = repo.SetOnboardingStep(testUser, entities.OnboardingStepComplete)
	require.NoError(t, err)
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	s, err := repo.Create(testUser)

	require.NoError(t, err)
	assert.Equal(t, testUser, s.UserID)
	assert.Equal(t, entities.OnboardingStepNative, s.OnboardingStep)
	assert.Equal(t, entities.DefaultDailyGoal, s.DailyGoal)
	assert.Nil(t, s.NativeLanguage)
	assert.Nil(t, s.TargetLanguage)
	assert.Nil(t, s.Level)
}

func TestRepository_Create_Idempotent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.Create(testUser)
	require.NoError(t, err)
	_, err = repo.Update(testUser, Update{DailyGoal: ptr(25)})
	require.NoError(t, err)

	second, err := repo.Create(testUser)

	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 25, second.DailyGoal)
}

func TestRepository_Create_Concurrent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	const callers = 8
	ids := make([]uint, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := repo.Create(testUser)
			errs[i] = err
			if err == nil {
				ids[i] = s.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	repo.db.Model(&entities.UserSettings{}).Where("user_id = ?", testUser).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(testUser)

	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	s, err := repo.Update(testUser, Update{
		NativeLanguage: ptr("en"),
		TargetLanguage: ptr("de"),
		Level:          ptr("intermediate"),
		DailyGoal:      ptr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "en", *s.NativeLanguage)
	assert.Equal(t, "de", *s.TargetLanguage)
	assert.Equal(t, entities.LevelIntermediate, *s.Level)
	assert.Equal(t, 30, s.DailyGoal)

	stored, err := repo.Get(testUser)
	require.NoError(t, err)
	assert.Equal(t, "de", *stored.TargetLanguage)
	assert.Equal(t, 30, stored.DailyGoal)
}

func TestRepository_Update_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		update Update
		want   error
	}{
		{"uppercase language", Update{NativeLanguage: ptr("EN")}, ErrInvalidLanguage},
		{"long language", Update{TargetLanguage: ptr("english")}, ErrInvalidLanguage},
		{"same languages", Update{NativeLanguage: ptr("es"), TargetLanguage: ptr("es")}, ErrLanguageConflict},
		{"unknown level", Update{Level: ptr("expert")}, ErrInvalidLevel},
		{"goal too small", Update{DailyGoal: ptr(0)}, ErrInvalidDailyGoal},
		{"goal too large", Update{DailyGoal: ptr(entities.MaxDailyGoal + 1)}, ErrInvalidDailyGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Update(testUser, tt.update)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Update(testUser, Update{DailyGoal: ptr(5)})

	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestRepository_Update_NativeMatchesTarget(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	onboarded(t, repo)

	s, err := repo.Update(testUser, Update{NativeLanguage: ptr("es")})

	require.NoError(t, err)
	assert.Equal(t, "es", *s.NativeLanguage)
	assert.Nil(t, s.TargetLanguage)
	assert.Equal(t, entities.OnboardingStepLearning, s.OnboardingStep)
}

func TestRepository_Update_TargetMatchesNative(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	onboarded(t, repo)

	s, err := repo.Update(testUser, Update{TargetLanguage: ptr("en")})

	require.NoError(t, err)
	assert.Nil(t, s.NativeLanguage)
	assert.Equal(t, "en", *s.TargetLanguage)
	assert.Equal(t, entities.OnboardingStepNative, s.OnboardingStep)
}

func TestRepository_Update_SwapLanguages(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	onboarded(t, repo)

	s, err := repo.Update(testUser, Update{NativeLanguage: ptr("es"), TargetLanguage: ptr("en")})

	require.NoError(t, err)
	assert.Equal(t, "es", *s.NativeLanguage)
	assert.Equal(t, "en", *s.TargetLanguage)
	assert.Equal(t, entities.OnboardingStepComplete, s.OnboardingStep)
}

func TestRepository_Update_ClearLevelRollsBack(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	onboarded(t, repo)

	s, err := repo.Update(testUser, Update{Level: ptr("")})

	require.NoError(t, err)
	assert.Nil(t, s.Level)
	assert.Equal(t, entities.OnboardingStepLevel, s.OnboardingStep)
}

func TestRepository_Update_EarlyStepUnchanged(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	s, err := repo.Update(testUser, Update{TargetLanguage: ptr("es")})

	require.NoError(t, err)
	assert.Equal(t, entities.OnboardingStepNative, s.OnboardingStep)
}

func TestRepository_SetOnboardingStep(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	_, err = repo.SetOnboardingStep(testUser, entities.OnboardingStepLearning)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)

	_, err = repo.Update(testUser, Update{NativeLanguage: ptr("en")})
	require.NoError(t, err)

	s, err := repo.SetOnboardingStep(testUser, entities.OnboardingStepLearning)
	require.NoError(t, err)
	assert.Equal(t, entities.OnboardingStepLearning, s.OnboardingStep)

	_, err = repo.SetOnboardingStep(testUser, entities.OnboardingStepLevel)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)

	_, err = repo.Update(testUser, Update{TargetLanguage: ptr("es")})
	require.NoError(t, err)
	_, err = repo.SetOnboardingStep(testUser, entities.OnboardingStepLevel)
	require.NoError(t, err)

	_, err = repo.SetOnboardingStep(testUser, entities.OnboardingStepComplete)
	require.ErrorIs(t, err, ErrOnboardingIncomplete)
	assert.Contains(t, err.Error(), "level")

	stored, err := repo.Get(testUser)
	require.NoError(t, err)
	assert.Equal(t, entities.OnboardingStepLevel, stored.OnboardingStep)
}

func TestRepository_SetOnboardingStep_Backwards(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	onboarded(t, repo)

	s, err := repo.SetOnboardingStep(testUser, entities.OnboardingStepNative)

	require.NoError(t, err)
	assert.Equal(t, entities.OnboardingStepNative, s.OnboardingStep)
	assert.Equal(t, "en", *s.NativeLanguage)
}

func TestRepository_SetOnboardingStep_Invalid(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	_, err = repo.SetOnboardingStep(testUser, "finished")
	assert.ErrorIs(t, err, ErrInvalidOnboardingStep)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(testUser)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(testUser))

	_, err = repo.Get(testUser)
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}
