// Package progress provides the exercise attempt log and everything derived
// from it.
//
// Attempts are append-only. Progress counters look only at the latest
// attempt of each exercise; the totals come from the content library so that
// exercises nobody has attempted yet are still counted.
//
// # Usage
//
//	repo := progress.NewRepository(db)
//	err := repo.RecordAttempt(&entities.ExerciseAttempt{...})
//	overview, err := repo.LanguageOverview(userID, "es", lib)
//	next, err := repo.NextExercise(userID, "es", "basics", "greetings", exercises, nil)
package progress

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lingo/internal/entities"
)

var (
	ErrInvalidAttempt = errors.New("invalid attempt")
	ErrNoExercises    = errors.New("unit has no exercises")
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Filter narrows LatestAttempts to a module or a unit. Empty fields match all.
type Filter struct {
	ModuleID string
	UnitID   string
}

// Key identifies an exercise within a language.
type Key struct {
	ModuleID   string
	UnitID     string
	ExerciseID string
}

func keyOf(a entities.ExerciseAttempt) Key {
	return Key{ModuleID: a.ModuleID, UnitID: a.UnitID, ExerciseID: a.ExerciseID}
}

// Repository handles all progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordAttempt appends an attempt to the log. Attempts that already have an
// ID are rejected so existing rows are never rewritten.
func (r *Repository) RecordAttempt(attempt *entities.ExerciseAttempt) error {
	switch {
	case attempt.ID != 0:
		return fmt.Errorf("%w: attempt %d already recorded", ErrInvalidAttempt, attempt.ID)
	case !attempt.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidAttempt, attempt.Status)
	case attempt.UserID == "" || attempt.Language == "" || attempt.ModuleID == "" ||
		attempt.UnitID == "" || attempt.ExerciseID == "":
		return fmt.Errorf("%w: user, language, module, unit and exercise are required", ErrInvalidAttempt)
	case attempt.DurationMs < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidAttempt)
	}

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	// Day boundaries are computed in UTC
	attempt.CreatedAt = attempt.CreatedAt.UTC()

	return r.db.Create(attempt).Error
}

// LatestAttempts returns the most recent attempt of every exercise the user
// has tried in a language. The highest ID wins when timestamps tie.
func (r *Repository) LatestAttempts(userID, lang string, filter Filter) (map[Key]entities.ExerciseAttempt, error) {
	scope := r.db.Model(&entities.ExerciseAttempt{}).
		Where("user_id = ? AND language = ?", userID, lang)
	if filter.ModuleID != "" {
		scope = scope.Where("module_id = ?", filter.ModuleID)
	}
	if filter.UnitID != "" {
		scope = scope.Where("unit_id = ?", filter.UnitID)
	}
	latestIDs := scope.Select("MAX(id)").Group("module_id, unit_id, exercise_id")

	var attempts []entities.ExerciseAttempt
	if err := r.db.Where("id IN (?)", latestIDs).Find(&attempts).Error; err != nil {
		return nil, err
	}

	latest := make(map[Key]entities.ExerciseAttempt, len(attempts))
	for _, a := range attempts {
		latest[keyOf(a)] = a
	}
	return latest, nil
}

// History returns the attempts of a user, newest first, along with the total
// count. An empty lang returns attempts of every language.
func (r *Repository) History(userID, lang string, limit, offset int) ([]entities.ExerciseAttempt, int64, error) {
	var attempts []entities.ExerciseAttempt
	var total int64

	query := r.db.Model(&entities.ExerciseAttempt{}).Where("user_id = ?", userID)
	if lang != "" {
		query = query.Where("language = ?", lang)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&attempts).Error
	return attempts, total, err
}

// TodayCount returns the number of attempts made on the UTC day of now.
func (r *Repository) TodayCount(userID string, now time.Time) (int64, error) {
	start := startOfDay(now)
	var count int64
	err := r.db.Model(&entities.ExerciseAttempt{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, start.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}

// Streak returns the number of consecutive UTC days with at least one
// attempt. The streak is kept alive until the end of the day after the last
// active day.
func (r *Repository) Streak(userID string, now time.Time) (int, error) {
	rows, err := r.db.Model(&entities.ExerciseAttempt{}).
		Select("created_at").
		Where("user_id = ? AND created_at < ?", userID, startOfDay(now).AddDate(0, 0, 1)).
		Order("created_at DESC").
		Rows()
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	today := startOfDay(now)
	streak := 0
	var current time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return 0, err
		}
		day := startOfDay(ts)

		switch {
		case streak == 0:
			if day.Before(today.AddDate(0, 0, -1)) {
				return 0, rows.Err()
			}
			streak, current = 1, day
		case day.Equal(current):
		case day.Equal(current.AddDate(0, 0, -1)):
			streak++
			current = day
		default:
			return streak, rows.Err()
		}
	}
	return streak, rows.Err()
}

// ResetLanguage deletes every attempt of a user in one language.
func (r *Repository) ResetLanguage(userID, lang string) (int64, error) {
	result := r.db.Where("user_id = ? AND language = ?", userID, lang).Delete(&entities.ExerciseAttempt{})
	return result.RowsAffected, result.Error
}

// DeleteUser deletes every attempt of a user.
func (r *Repository) DeleteUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.ExerciseAttempt{}).Error
}

func startOfDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
