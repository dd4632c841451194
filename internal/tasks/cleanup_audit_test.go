package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	retention time.Duration
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, f.err
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{RetentionDays: 7}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}

	err := CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})

	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)
}

func TestCleanupAuditEventsProcessor_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{}

	err := CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{})

	require.NoError(t, err)
	assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, cleaner.retention)
}

func TestCleanupAuditEventsProcessor_Errors(t *testing.T) {
	err := CleanupAuditEventsProcessor(nil, nil)(context.Background(), CleanupAuditEventsTask{})
	assert.Error(t, err)

	cleaner := &fakeCleaner{err: errors.New("disk full")}
	err = CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{})
	assert.ErrorContains(t, err, "disk full")
}
