// Package audit records user-visible events such as account lifecycle
// changes, settings updates and progress resets.
//
// Events are written in the background; Wait blocks until pending writes
// have finished and is called during shutdown.
package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database/audit"
	"github.com/mrlokans/lingo/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	logger  *zap.Logger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log audit event",
				zap.String("action", event.Action),
				zap.String("user_id", event.UserID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all events passed to LogAsync are written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogUser records a user lifecycle event such as user_create or user_purge.
func (s *Service) LogUser(userID, action, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventUser,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	withError(event, err)

	s.LogAsync(event)
}

// LogSettings records a settings change.
func (s *Service) LogSettings(userID, action, ipAddr string, changes map[string]any) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: "Settings updated",
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	withMetadata(event, changes)

	s.LogAsync(event)
}

// LogProgressReset records the removal of a user's progress in a language.
func (s *Service) LogProgressReset(userID, lang, ipAddr string, deleted int64) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventProgress,
		Action:      "progress_reset",
		Description: fmt.Sprintf("Reset progress for %s (%d attempts)", lang, deleted),
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	withMetadata(event, map[string]any{"language": lang, "deleted_attempts": deleted})

	s.LogAsync(event)
}

// LogContentReload records a reload of the content library.
func (s *Service) LogContentReload(stats content.Stats, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventContent,
		Action:      "content_reload",
		Description: fmt.Sprintf("Loaded %d modules with %d exercises", stats.Modules, stats.Exercises),
		Status:      entities.AuditStatusSuccess,
	}
	withMetadata(event, stats)
	if err != nil {
		event.Description = "Content reload failed"
	}
	withError(event, err)

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(userID, limit, offset)
}

// GetEventsByType retrieves paginated audit events of one type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, userID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func withMetadata(event *entities.AuditEvent, metadata any) {
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}
}

func withError(event *entities.AuditEvent, err error) {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
