package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/entities"
)

// AttemptInput is an exercise submission from a learner. When Status is
// empty the answer is graded against the exercise.
type AttemptInput struct {
	Language   string                `json:"language"`
	ModuleID   string                `json:"module_id"`
	UnitID     string                `json:"unit_id"`
	ExerciseID string                `json:"exercise_id"`
	Status     entities.AnswerStatus `json:"status"`
	Answer     string                `json:"answer"`
	DurationMs int                   `json:"duration_ms"`
}

// AttemptResult is returned after recording an attempt. The solution is
// revealed once the exercise has been attempted.
type AttemptResult struct {
	Attempt     entities.ExerciseAttempt `json:"attempt"`
	Graded      bool                     `json:"graded"`
	Solution    []string                 `json:"solution,omitempty"`
	Explanation string                   `json:"explanation,omitempty"`
	Progress    progress.Counters        `json:"progress"`
}

// Stats describes today's activity against the daily goal.
type Stats struct {
	Streak      int   `json:"streak"`
	Today       int64 `json:"today"`
	DailyGoal   int   `json:"daily_goal"`
	GoalReached bool  `json:"goal_reached"`
}

// ProgressService combines the attempt log with the content library.
type ProgressService struct {
	store    ProgressStore
	settings SettingsStore
	library  LibrarySource
	auditor  Auditor
	rng      progress.Rand
	now      func() time.Time
}

// NewProgressService creates a new ProgressService. A nil auditor disables
// auditing.
func NewProgressService(store ProgressStore, settings SettingsStore, library LibrarySource, auditor Auditor) *ProgressService {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &ProgressService{
		store:    store,
		settings: settings,
		library:  library,
		auditor:  auditor,
		now:      time.Now,
	}
}

// RecordAttempt validates a submission against the library, grades it when
// needed and appends it to the log.
func (s *ProgressService) RecordAttempt(userID string, in AttemptInput) (*AttemptResult, error) {
	lib := s.library.Current()
	exercise, err := lib.Exercise(in.Language, in.ModuleID, in.UnitID, in.ExerciseID)
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{}
	status := in.Status
	if status == "" {
		if in.Answer == "" {
			return nil, fmt.Errorf("%w: status or answer is required", progress.ErrInvalidAttempt)
		}
		status = entities.AnswerIncorrect
		if exercise.Grade(in.Answer) {
			status = entities.AnswerCorrect
		}
		result.Graded = true
	}

	attempt := entities.ExerciseAttempt{
		UserID:     userID,
		Language:   in.Language,
		ModuleID:   in.ModuleID,
		UnitID:     in.UnitID,
		ExerciseID: in.ExerciseID,
		Topic:      exercise.Topic,
		Status:     status,
		Answer:     in.Answer,
		DurationMs: in.DurationMs,
		CreatedAt:  s.now(),
	}
	if err := s.store.RecordAttempt(&attempt); err != nil {
		return nil, err
	}
	result.Attempt = attempt

	if status != entities.AnswerSkipped {
		result.Solution = exercise.Answer
		result.Explanation = exercise.Explanation
	}

	exercises, err := lib.Exercises(in.Language, in.ModuleID, in.UnitID)
	if err != nil {
		return nil, err
	}
	result.Progress, err = s.store.UnitProgress(userID, in.Language, in.ModuleID, in.UnitID, exercises)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Next picks the next exercise of a unit with its solution removed.
func (s *ProgressService) Next(userID, lang, moduleID, unitID string) (*progress.Next, error) {
	exercises, err := s.library.Current().Exercises(lang, moduleID, unitID)
	if err != nil {
		return nil, err
	}
	next, err := s.store.NextExercise(userID, lang, moduleID, unitID, exercises, s.rng)
	if err != nil {
		return nil, err
	}
	next.Exercise = next.Exercise.WithoutSolution()
	return next, nil
}

// Overview returns per-module and per-unit progress for a language.
func (s *ProgressService) Overview(userID, lang string) (*progress.Overview, error) {
	return s.store.LanguageOverview(userID, lang, s.library.Current())
}

// Topics returns progress per exercise topic.
func (s *ProgressService) Topics(userID, lang string) ([]progress.TopicSummary, error) {
	lib := s.library.Current()
	if !lib.HasLanguage(lang) {
		return nil, fmt.Errorf("%w: %s", content.ErrLanguageNotFound, lang)
	}
	return s.store.TopicProgress(userID, lang, lib)
}

// Unit returns the counters of a single unit.
func (s *ProgressService) Unit(userID, lang, moduleID, unitID string) (progress.Counters, error) {
	exercises, err := s.library.Current().Exercises(lang, moduleID, unitID)
	if err != nil {
		return progress.Counters{}, err
	}
	return s.store.UnitProgress(userID, lang, moduleID, unitID, exercises)
}

// History returns recorded attempts, newest first.
func (s *ProgressService) History(userID, lang string, limit, offset int) ([]entities.ExerciseAttempt, int64, error) {
	return s.store.History(userID, lang, limit, offset)
}

// Stats reports the streak and today's attempts against the daily goal.
func (s *ProgressService) Stats(userID string) (*Stats, error) {
	now := s.now()
	streak, err := s.store.Streak(userID, now)
	if err != nil {
		return nil, err
	}
	today, err := s.store.TodayCount(userID, now)
	if err != nil {
		return nil, err
	}

	goal := entities.DefaultDailyGoal
	st, err := s.settings.Get(userID)
	switch {
	case err == nil:
		goal = st.DailyGoal
	case !errors.Is(err, settings.ErrSettingsNotFound):
		return nil, err
	}

	return &Stats{
		Streak:      streak,
		Today:       today,
		DailyGoal:   goal,
		GoalReached: today >= int64(goal),
	}, nil
}

// Reset deletes the user's attempts in one language.
func (s *ProgressService) Reset(userID, lang, ipAddr string) (int64, error) {
	deleted, err := s.store.ResetLanguage(userID, lang)
	if err != nil {
		return 0, err
	}
	s.auditor.LogProgressReset(userID, lang, ipAddr, deleted)
	return deleted, nil
}
