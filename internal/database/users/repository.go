// Package users provides database operations for the user lifecycle.
//
// Users are created and deleted by the auth service through the internal
// API. Deletion is soft first; Purge removes the user together with all of
// their settings and progress.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.Create(id, "learner@example.com")
//	err = repo.SoftDelete(id)
//	err = repo.Purge(id)
package users

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lingo/internal/entities"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a user. A soft-deleted user with the same ID still counts
// as existing until it is purged. Requires a connection opened with
// TranslateError.
func (r *Repository) Create(id, email string) (*entities.User, error) {
	user := &entities.User{ID: id, Email: email}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, id)
		}
		return nil, err
	}
	return user, nil
}

// Get retrieves a live user by ID.
func (r *Repository) Get(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a live user with the given ID exists.
func (r *Repository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// SoftDelete marks a live user as deleted.
func (r *Repository) SoftDelete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&entities.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return nil
}

// Purge permanently removes the user, their settings and their attempt log.
// Purging an unknown user is a no-op so that retried purge tasks succeed.
func (r *Repository) Purge(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entities.ExerciseAttempt{}).Error; err != nil {
			return fmt.Errorf("failed to delete attempts: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.UserSettings{}).Error; err != nil {
			return fmt.Errorf("failed to delete settings: %w", err)
		}
		if err := tx.Unscoped().Where("id = ?", id).Delete(&entities.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// ListDeleted returns IDs of users soft-deleted before olderThan.
func (r *Repository) ListDeleted(olderThan time.Time) ([]string, error) {
	var ids []string
	err := r.db.Unscoped().Model(&entities.User{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", olderThan).
		Order("deleted_at").
		Pluck("id", &ids).Error
	return ids, err
}
