package entities

import (
	"time"
)

// OnboardingStep is the client-driven onboarding state. Steps are ordered:
// native -> learning -> level -> complete.
type OnboardingStep string

const (
	OnboardingStepNative   OnboardingStep = "native"   // choosing the native language
	OnboardingStepLearning OnboardingStep = "learning" // choosing the language to learn
	OnboardingStepLevel    OnboardingStep = "level"    // choosing a proficiency level
	OnboardingStepComplete OnboardingStep = "complete"
)

var onboardingOrder = map[OnboardingStep]int{
	OnboardingStepNative:   0,
	OnboardingStepLearning: 1,
	OnboardingStepLevel:    2,
	OnboardingStepComplete: 3,
}

// Valid reports whether s is a known onboarding step.
func (s OnboardingStep) Valid() bool {
	_, ok := onboardingOrder[s]
	return ok
}

// Index returns the position of the step in the onboarding flow, or -1.
func (s OnboardingStep) Index() int {
	if i, ok := onboardingOrder[s]; ok {
		return i
	}
	return -1
}

type ProficiencyLevel string

const (
	LevelBeginner     ProficiencyLevel = "beginner"
	LevelIntermediate ProficiencyLevel = "intermediate"
	LevelAdvanced     ProficiencyLevel = "advanced"
)

func (l ProficiencyLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Default and bounds for the number of exercises a user aims to do per day
const (
	DefaultDailyGoal = 10
	MinDailyGoal     = 1
	MaxDailyGoal     = 200
)

// UserSettings holds the single settings row of a user.
type UserSettings struct {
	ID             uint              `gorm:"primaryKey" json:"-"`
	UserID         string            `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	NativeLanguage *string           `gorm:"size:3" json:"native_language"`
	TargetLanguage *string           `gorm:"size:3" json:"target_language"`
	OnboardingStep OnboardingStep    `gorm:"size:20;not null;default:native" json:"onboarding_step"`
	Level          *ProficiencyLevel `gorm:"size:20" json:"level"`
	DailyGoal      int               `gorm:"not null;default:10" json:"daily_goal"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
