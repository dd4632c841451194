package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// UserPurger permanently removes users.
type UserPurger interface {
	Exists(id string) (bool, error)
	Purge(id string) error
	ListDeleted(olderThan time.Time) ([]string, error)
}

// PurgeAuditor records purge outcomes. It may be nil.
type PurgeAuditor interface {
	LogUser(userID, action, description string, err error)
}

// PurgeUserTask removes a soft-deleted user with all settings and progress.
type PurgeUserTask struct {
	UserID string `json:"user_id"`
}

// Config returns the queue configuration for user purge tasks.
func (t PurgeUserTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_user",
		MaxAttempts: 5,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeUserProcessor creates a processor function for PurgeUserTask. A user
// that is live again is left alone.
func PurgeUserProcessor(purger UserPurger, auditor PurgeAuditor, logger *zap.Logger) backlite.QueueProcessor[PurgeUserTask] {
	logger = nilSafe(logger)
	return func(ctx context.Context, task PurgeUserTask) error {
		if purger == nil {
			return fmt.Errorf("user purger not configured")
		}
		return PurgeUser(purger, auditor, logger, task.UserID)
	}
}

// PurgeUser purges a soft-deleted user immediately. It is used directly when
// the task queue is disabled.
func PurgeUser(purger UserPurger, auditor PurgeAuditor, logger *zap.Logger, userID string) error {
	logger = nilSafe(logger)
	live, err := purger.Exists(userID)
	if err != nil {
		return fmt.Errorf("check user %s: %w", userID, err)
	}
	if live {
		logger.Warn("skipping purge of live user", zap.String("user_id", userID))
		return nil
	}

	err = purger.Purge(userID)
	if auditor != nil {
		auditor.LogUser(userID, "user_purge", "User data permanently removed", err)
	}
	if err != nil {
		return fmt.Errorf("purge user %s: %w", userID, err)
	}

	logger.Info("purged user", zap.String("user_id", userID))
	return nil
}

// NewPurgeUserQueue creates a backlite queue for user purge tasks.
func NewPurgeUserQueue(purger UserPurger, auditor PurgeAuditor, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(PurgeUserProcessor(purger, auditor, logger))
}

// PurgeDeletedUsersTask purges every user soft-deleted longer than
// OlderThanSeconds ago. It catches users whose purge task was lost.
type PurgeDeletedUsersTask struct {
	OlderThanSeconds int64 `json:"older_than_seconds"`
}

// Config returns the queue configuration for purge sweep tasks.
func (t PurgeDeletedUsersTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_deleted_users",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeDeletedUsersProcessor creates a processor function for PurgeDeletedUsersTask.
func PurgeDeletedUsersProcessor(purger UserPurger, auditor PurgeAuditor, logger *zap.Logger) backlite.QueueProcessor[PurgeDeletedUsersTask] {
	logger = nilSafe(logger)
	return func(ctx context.Context, task PurgeDeletedUsersTask) error {
		if purger == nil {
			return fmt.Errorf("user purger not configured")
		}

		cutoff := time.Now().Add(-time.Duration(task.OlderThanSeconds) * time.Second)
		ids, err := purger.ListDeleted(cutoff)
		if err != nil {
			return fmt.Errorf("list deleted users: %w", err)
		}

		var failed int
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := PurgeUser(purger, auditor, logger, id); err != nil {
				logger.Error("purge sweep failed for user", zap.String("user_id", id), zap.Error(err))
				failed++
			}
		}

		if len(ids) > 0 {
			logger.Info("purge sweep finished", zap.Int("users", len(ids)), zap.Int("failed", failed))
		}
		if failed > 0 {
			return fmt.Errorf("purge sweep: %d of %d users failed", failed, len(ids))
		}
		return nil
	}
}

// NewPurgeDeletedUsersQueue creates a backlite queue for purge sweep tasks.
func NewPurgeDeletedUsersQueue(purger UserPurger, auditor PurgeAuditor, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(PurgeDeletedUsersProcessor(purger, auditor, logger))
}

func nilSafe(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
