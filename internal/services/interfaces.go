package services

import (
	"context"
	"time"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/entities"
)

// LibrarySource returns the content library currently in use.
type LibrarySource interface {
	Current() *content.Library
}

// ProgressStore is the attempt log and its aggregations.
type ProgressStore interface {
	RecordAttempt(attempt *entities.ExerciseAttempt) error
	UnitProgress(userID, lang, moduleID, unitID string, exercises []content.Exercise) (progress.Counters, error)
	LanguageOverview(userID, lang string, lib *content.Library) (*progress.Overview, error)
	TopicProgress(userID, lang string, lib *content.Library) ([]progress.TopicSummary, error)
	NextExercise(userID, lang, moduleID, unitID string, exercises []content.Exercise, rng progress.Rand) (*progress.Next, error)
	History(userID, lang string, limit, offset int) ([]entities.ExerciseAttempt, int64, error)
	TodayCount(userID string, now time.Time) (int64, error)
	Streak(userID string, now time.Time) (int, error)
	ResetLanguage(userID, lang string) (int64, error)
}

// SettingsStore reads and changes user settings.
type SettingsStore interface {
	Create(userID string) (*entities.UserSettings, error)
	Get(userID string) (*entities.UserSettings, error)
	Update(userID string, upd settings.Update) (*entities.UserSettings, error)
	SetOnboardingStep(userID string, step entities.OnboardingStep) (*entities.UserSettings, error)
}

// UserStore manages the user lifecycle.
type UserStore interface {
	Create(id, email string) (*entities.User, error)
	Get(id string) (*entities.User, error)
	Exists(id string) (bool, error)
	SoftDelete(id string) error
	Purge(id string) error
	ListDeleted(olderThan time.Time) ([]string, error)
}

// PurgeScheduler defers the purge of a soft-deleted user.
type PurgeScheduler interface {
	SchedulePurge(ctx context.Context, userID string, delay time.Duration) (string, error)
}

// Auditor records audit events. Implemented by *audit.Service.
type Auditor interface {
	LogUser(userID, action, description string, err error)
	LogSettings(userID, action, ipAddr string, changes map[string]any)
	LogProgressReset(userID, lang, ipAddr string, deleted int64)
}

type nopAuditor struct{}

func (nopAuditor) LogUser(string, string, string, error)              {}
func (nopAuditor) LogSettings(string, string, string, map[string]any) {}
func (nopAuditor) LogProgressReset(string, string, string, int64)     {}
