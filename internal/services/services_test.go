package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/database/users"
)

const testUser = "3d6f1b2a-9c4e-4a7b-8f1d-2e5c9a7b4d10"

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db       *database.Database
	library  *content.Store
	users    *users.Repository
	settings *settings.Repository
	progress *progress.Repository
	auditor  *recordingAuditor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "lingo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lib, err := content.Load("../content/testdata/content")
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		library:  content.NewStaticStore(lib),
		users:    users.NewRepository(db.DB),
		settings: settings.NewRepository(db.DB),
		progress: progress.NewRepository(db.DB),
		auditor:  &recordingAuditor{},
	}
}

type auditRecord struct {
	UserID string
	Action string
	Failed bool
}

type recordingAuditor struct {
	mu      sync.Mutex
	records []auditRecord
}

func (a *recordingAuditor) add(r auditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r)
}

func (a *recordingAuditor) LogUser(userID, action, description string, err error) {
	a.add(auditRecord{UserID: userID, Action: action, Failed: err != nil})
}

func (a *recordingAuditor) LogSettings(userID, action, ipAddr string, changes map[string]any) {
	a.add(auditRecord{UserID: userID, Action: action})
}

func (a *recordingAuditor) LogProgressReset(userID, lang, ipAddr string, deleted int64) {
	a.add(auditRecord{UserID: userID, Action: "progress_reset"})
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.records))
	for i, r := range a.records {
		out[i] = r.Action
	}
	return out
}

type fakeScheduler struct {
	err    error
	userID string
	delay  time.Duration
}

func (f *fakeScheduler) SchedulePurge(ctx context.Context, userID string, delay time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.userID = userID
	f.delay = delay
	return "task-1", nil
}

var errQueueDown = errors.New("queue unavailable")
