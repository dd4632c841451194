package entities

import "time"

// AnswerStatus is the outcome of an exercise submission.
type AnswerStatus string

const (
	AnswerCorrect   AnswerStatus = "CORRECT"
	AnswerIncorrect AnswerStatus = "INCORRECT"
	AnswerSkipped   AnswerStatus = "SKIPPED"
	AnswerRevealed  AnswerStatus = "REVEALED"
)

func (s AnswerStatus) Valid() bool {
	switch s {
	case AnswerCorrect, AnswerIncorrect, AnswerSkipped, AnswerRevealed:
		return true
	}
	return false
}

// Completed reports whether the exercise counts as done. Skipping does not.
func (s AnswerStatus) Completed() bool {
	return s == AnswerCorrect || s == AnswerIncorrect || s == AnswerRevealed
}

// Failed reports whether the answer counts as wrong. Revealing the answer does.
func (s AnswerStatus) Failed() bool {
	return s == AnswerIncorrect || s == AnswerRevealed
}

// ExerciseAttempt is one row of the append-only attempt log.
type ExerciseAttempt struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     string       `gorm:"size:36;not null;index:idx_attempt_scope,priority:1;index:idx_attempt_exercise,priority:1" json:"user_id"`
	Language   string       `gorm:"size:3;not null;index:idx_attempt_scope,priority:2" json:"language"`
	ModuleID   string       `gorm:"size:100;not null;index:idx_attempt_scope,priority:3" json:"module_id"`
	UnitID     string       `gorm:"size:100;not null;index:idx_attempt_scope,priority:4" json:"unit_id"`
	ExerciseID string       `gorm:"size:100;not null;index:idx_attempt_exercise,priority:2" json:"exercise_id"`
	Topic      string       `gorm:"size:100" json:"topic,omitempty"`
	Status     AnswerStatus `gorm:"size:20;not null" json:"status"`
	Answer     string       `gorm:"type:text" json:"answer,omitempty"`
	DurationMs int          `json:"duration_ms,omitempty"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
