package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/database/users"
	"github.com/mrlokans/lingo/internal/entities"
	"github.com/mrlokans/lingo/internal/tasks"
)

// ErrInvalidUserID is returned for identifiers that are not UUIDs.
var ErrInvalidUserID = errors.New("user id must be a uuid")

// Profile is a user together with their settings.
type Profile struct {
	User     *entities.User         `json:"user"`
	Settings *entities.UserSettings `json:"settings"`
}

// DeleteResult describes how a deleted user will be purged. TaskID is empty
// when the purge ran synchronously.
type DeleteResult struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id,omitempty"`
	Purged bool   `json:"purged"`
}

// UserService manages the user lifecycle on behalf of the auth service.
type UserService struct {
	users      UserStore
	settings   SettingsStore
	purges     PurgeScheduler
	purgeDelay time.Duration
	auditor    Auditor
	logger     *zap.Logger
}

// NewUserService creates a new UserService. With a nil scheduler deleted
// users are purged immediately.
func NewUserService(userStore UserStore, settingsStore SettingsStore, purges PurgeScheduler, purgeDelay time.Duration, auditor Auditor, logger *zap.Logger) *UserService {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      userStore,
		settings:   settingsStore,
		purges:     purges,
		purgeDelay: purgeDelay,
		auditor:    auditor,
		logger:     logger,
	}
}

// NormalizeID parses a user id and returns its canonical form.
func NormalizeID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return parsed.String(), nil
}

// lookupID normalizes the id of an existing user. An id that is not a
// UUID cannot name a user.
func lookupID(id string) (string, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", users.ErrUserNotFound, id)
	}
	return normalized, nil
}

// Create registers a user and their default settings.
func (s *UserService) Create(id, email string) (*Profile, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(id, email)
	if err != nil {
		if !errors.Is(err, users.ErrUserExists) {
			s.auditor.LogUser(id, "user_create", "User creation failed", err)
		}
		return nil, err
	}
	st, err := s.settings.Create(id)
	if err != nil {
		return nil, err
	}

	s.auditor.LogUser(id, "user_create", "User created", nil)
	return &Profile{User: user, Settings: st}, nil
}

// Get returns a live user with their settings. Missing settings are created.
func (s *UserService) Get(id string) (*Profile, error) {
	id, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(id)
	if err != nil {
		return nil, err
	}

	st, err := s.settings.Get(id)
	if errors.Is(err, settings.ErrSettingsNotFound) {
		st, err = s.settings.Create(id)
	}
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Settings: st}, nil
}

// Exists reports whether a live user exists.
func (s *UserService) Exists(id string) (bool, error) {
	return s.users.Exists(id)
}

// Delete soft-deletes a user and schedules the purge of their data.
func (s *UserService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	id, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SoftDelete(id); err != nil {
		return nil, err
	}
	s.auditor.LogUser(id, "user_delete", "User deleted", nil)

	result := &DeleteResult{UserID: id}
	if s.purges != nil {
		taskID, err := s.purges.SchedulePurge(ctx, id, s.purgeDelay)
		if err == nil {
			result.TaskID = taskID
			return result, nil
		}
		// Purge synchronously rather than leave it to the periodic sweep.
		s.logger.Error("failed to schedule purge, purging now", zap.String("user_id", id), zap.Error(err))
	}

	if err := tasks.PurgeUser(s.users, s.auditor, s.logger, id); err != nil {
		return nil, err
	}
	result.Purged = true
	return result, nil
}
