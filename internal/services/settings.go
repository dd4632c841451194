package services

import (
	"errors"
	"fmt"

	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/entities"
)

// ErrUnsupportedLanguage is returned when the target language has no content.
var ErrUnsupportedLanguage = errors.New("no content for target language")

// SettingsService validates settings changes against the content library
// and audits them.
type SettingsService struct {
	store   SettingsStore
	library LibrarySource
	auditor Auditor
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store SettingsStore, library LibrarySource, auditor Auditor) *SettingsService {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &SettingsService{store: store, library: library, auditor: auditor}
}

// Get returns the user's settings.
func (s *SettingsService) Get(userID string) (*entities.UserSettings, error) {
	return s.store.Get(userID)
}

// Update applies a partial change.
func (s *SettingsService) Update(userID string, upd settings.Update, ipAddr string) (*entities.UserSettings, error) {
	if t := upd.TargetLanguage; t != nil && *t != "" && !s.library.Current().HasLanguage(*t) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, *t)
	}

	updated, err := s.store.Update(userID, upd)
	if err != nil {
		return nil, err
	}

	s.auditor.LogSettings(userID, "settings_update", ipAddr, changes(upd))
	return updated, nil
}

// SetOnboardingStep moves the user to another onboarding step.
func (s *SettingsService) SetOnboardingStep(userID string, step entities.OnboardingStep, ipAddr string) (*entities.UserSettings, error) {
	updated, err := s.store.SetOnboardingStep(userID, step)
	if err != nil {
		return nil, err
	}

	s.auditor.LogSettings(userID, "onboarding_step", ipAddr, map[string]any{"onboarding_step": step})
	return updated, nil
}

func changes(upd settings.Update) map[string]any {
	out := make(map[string]any)
	if upd.NativeLanguage != nil {
		out["native_language"] = *upd.NativeLanguage
	}
	if upd.TargetLanguage != nil {
		out["target_language"] = *upd.TargetLanguage
	}
	if upd.Level != nil {
		out["level"] = *upd.Level
	}
	if upd.DailyGoal != nil {
		out["daily_goal"] = *upd.DailyGoal
	}
	return out
}
