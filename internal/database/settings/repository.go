// Package settings provides database operations for per-user settings.
//
// Each user has exactly one settings row. Updates resolve conflicts between
// the native and target language and keep the onboarding step consistent
// with the data that has been collected.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	s, err := repo.Create(userID)
//	s, err = repo.Update(userID, settings.Update{TargetLanguage: &lang})
//	s, err = repo.SetOnboardingStep(userID, entities.OnboardingStepLevel)
package settings

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/entities"
)

var (
	ErrSettingsNotFound      = errors.New("settings not found")
	ErrLanguageConflict      = errors.New("native and target language must differ")
	ErrInvalidLanguage       = errors.New("invalid language code")
	ErrInvalidLevel          = errors.New("invalid proficiency level")
	ErrInvalidDailyGoal      = errors.New("invalid daily goal")
	ErrInvalidOnboardingStep = errors.New("invalid onboarding step")
	ErrOnboardingIncomplete  = errors.New("onboarding step requirements not met")
)

// Update is a partial settings change. Nil fields are left untouched; an
// empty string clears a language or the level.
type Update struct {
	NativeLanguage *string `json:"native_language"`
	TargetLanguage *string `json:"target_language"`
	Level          *string `json:"level"`
	DailyGoal      *int    `json:"daily_goal"`
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.NativeLanguage == nil && u.TargetLanguage == nil && u.Level == nil && u.DailyGoal == nil
}

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the default settings row for a user. Calling it again
// returns the existing row.
func (r *Repository) Create(userID string) (*entities.UserSettings, error) {
	defaults := entities.UserSettings{
		UserID:         userID,
		OnboardingStep: entities.OnboardingStepNative,
		DailyGoal:      entities.DefaultDailyGoal,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&defaults).Error
	if err != nil {
		return nil, err
	}
	return get(r.db, userID)
}

// Get retrieves the settings of a user.
func (r *Repository) Get(userID string) (*entities.UserSettings, error) {
	return get(r.db, userID)
}

func get(db *gorm.DB, userID string) (*entities.UserSettings, error) {
	var s entities.UserSettings
	err := db.Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrSettingsNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update applies a partial change.
//
// Setting both languages to the same value is rejected. Setting only one of
// them to the value currently held by the other clears the other one. When a
// language or the level ends up empty, the onboarding step is rolled back to
// the step that collects it.
func (r *Repository) Update(userID string, upd Update) (*entities.UserSettings, error) {
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}

	var result *entities.UserSettings
	err := r.db.Transaction(func(tx *gorm.DB) error {
		s, err := get(tx, userID)
		if err != nil {
			return err
		}
		applyUpdate(s, upd)
		if err := tx.Save(s).Error; err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateUpdate(upd Update) error {
	for _, lang := range []*string{upd.NativeLanguage, upd.TargetLanguage} {
		if lang != nil && *lang != "" && !content.IsLanguageCode(*lang) {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, *lang)
		}
	}
	if upd.NativeLanguage != nil && upd.TargetLanguage != nil &&
		*upd.NativeLanguage != "" && *upd.NativeLanguage == *upd.TargetLanguage {
		return fmt.Errorf("%w: both set to %q", ErrLanguageConflict, *upd.NativeLanguage)
	}
	if upd.Level != nil && *upd.Level != "" && !entities.ProficiencyLevel(*upd.Level).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, *upd.Level)
	}
	if upd.DailyGoal != nil && (*upd.DailyGoal < entities.MinDailyGoal || *upd.DailyGoal > entities.MaxDailyGoal) {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidDailyGoal, *upd.DailyGoal, entities.MinDailyGoal, entities.MaxDailyGoal)
	}
	return nil
}

func applyUpdate(s *entities.UserSettings, upd Update) {
	if upd.NativeLanguage != nil {
		s.NativeLanguage = optional(*upd.NativeLanguage)
		if upd.TargetLanguage == nil && equal(s.NativeLanguage, s.TargetLanguage) {
			s.TargetLanguage = nil
		}
	}
	if upd.TargetLanguage != nil {
		s.TargetLanguage = optional(*upd.TargetLanguage)
		if upd.NativeLanguage == nil && equal(s.TargetLanguage, s.NativeLanguage) {
			s.NativeLanguage = nil
		}
	}
	if upd.Level != nil {
		if *upd.Level == "" {
			s.Level = nil
		} else {
			level := entities.ProficiencyLevel(*upd.Level)
			s.Level = &level
		}
	}
	if upd.DailyGoal != nil {
		s.DailyGoal = *upd.DailyGoal
	}

	if reached := furthestStep(s); s.OnboardingStep.Index() > reached.Index() {
		s.OnboardingStep = reached
	}
}

// SetOnboardingStep moves the user to step. Moving forward requires the data
// of every earlier step; moving backward is always allowed.
func (r *Repository) SetOnboardingStep(userID string, step entities.OnboardingStep) (*entities.UserSettings, error) {
	if !step.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOnboardingStep, step)
	}

	var result *entities.UserSettings
	err := r.db.Transaction(func(tx *gorm.DB) error {
		s, err := get(tx, userID)
		if err != nil {
			return err
		}
		if reached := furthestStep(s); step.Index() > reached.Index() {
			return fmt.Errorf("%w: %s requires %s", ErrOnboardingIncomplete, step, missingFor(s, step))
		}
		s.OnboardingStep = step
		if err := tx.Model(s).Update("onboarding_step", step).Error; err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the settings row of a user.
func (r *Repository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.UserSettings{}).Error
}

// furthestStep returns the last onboarding step the collected data allows.
func furthestStep(s *entities.UserSettings) entities.OnboardingStep {
	switch {
	case s.NativeLanguage == nil:
		return entities.OnboardingStepNative
	case s.TargetLanguage == nil:
		return entities.OnboardingStepLearning
	case s.Level == nil:
		return entities.OnboardingStepLevel
	default:
		return entities.OnboardingStepComplete
	}
}

func missingFor(s *entities.UserSettings, step entities.OnboardingStep) string {
	var missing []string
	if s.NativeLanguage == nil {
		missing = append(missing, "native_language")
	}
	if step.Index() >= entities.OnboardingStepLevel.Index() && s.TargetLanguage == nil {
		missing = append(missing, "target_language")
	}
	if step == entities.OnboardingStepComplete && s.Level == nil {
		missing = append(missing, "level")
	}
	return strings.Join(missing, ", ")
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func equal(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
