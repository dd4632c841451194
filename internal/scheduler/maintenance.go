// Package scheduler runs periodic maintenance on a cron schedule. Jobs do
// not do the work themselves; they enqueue tasks so retries and history are
// handled by the task queue.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/lingo/internal/tasks"
)

// Job names
const (
	JobAuditCleanup = "cleanup_audit_events"
	JobPurgeSweep   = "purge_deleted_users"
)

// Enqueuer adds tasks to the task queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// Config selects the schedules. An empty schedule disables its job.
type Config struct {
	AuditCleanupCron   string
	PurgeSweepCron     string
	AuditRetentionDays int
	PurgeDelay         time.Duration
}

// MaintenanceScheduler manages the periodic maintenance jobs.
type MaintenanceScheduler struct {
	enqueuer Enqueuer
	config   Config
	logger   *zap.Logger

	cron       *cron.Cron
	entries    map[string]cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(enqueuer Enqueuer, cfg Config, logger *zap.Logger) *MaintenanceScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		config:   cfg,
		logger:   logger,
		entries:  make(map[string]cron.EntryID),
	}
}

func newCron() *cron.Cron {
	return cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(schedule)
	return err
}

// Start registers the configured jobs and starts the cron loop. The
// scheduler stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	c := newCron()
	entries := make(map[string]cron.EntryID)
	for name, schedule := range s.schedules() {
		if schedule == "" {
			s.logger.Info("maintenance job disabled", zap.String("job", name))
			continue
		}
		job := name
		id, err := c.AddFunc(schedule, func() { s.run(job) })
		if err != nil {
			return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, name, err)
		}
		entries[name] = id
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.cron = c
	s.entries = entries
	s.cron.Start()
	s.isRunning = true

	s.logger.Info("maintenance scheduler started", zap.Int("jobs", len(entries)))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc()
	s.cancelFunc = nil

	s.logger.Info("maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns the next run time of every scheduled job.
func (s *MaintenanceScheduler) NextRuns() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := make(map[string]time.Time, len(s.entries))
	if !s.isRunning {
		return next
	}
	for name, id := range s.entries {
		next[name] = s.cron.Entry(id).Next
	}
	return next
}

// Jobs returns the names of the known jobs in sorted order.
func Jobs() []string {
	jobs := []string{JobAuditCleanup, JobPurgeSweep}
	sort.Strings(jobs)
	return jobs
}

// RunNow enqueues the task of a job immediately and returns its task ID.
func (s *MaintenanceScheduler) RunNow(ctx context.Context, job string) (string, error) {
	task, err := s.task(job)
	if err != nil {
		return "", err
	}
	return s.enqueuer.Enqueue(ctx, task)
}

func (s *MaintenanceScheduler) schedules() map[string]string {
	return map[string]string{
		JobAuditCleanup: s.config.AuditCleanupCron,
		JobPurgeSweep:   s.config.PurgeSweepCron,
	}
}

func (s *MaintenanceScheduler) task(job string) (backlite.Task, error) {
	switch job {
	case JobAuditCleanup:
		return tasks.CleanupAuditEventsTask{RetentionDays: s.config.AuditRetentionDays}, nil
	case JobPurgeSweep:
		return tasks.PurgeDeletedUsersTask{OlderThanSeconds: int64(s.config.PurgeDelay / time.Second)}, nil
	default:
		return nil, fmt.Errorf("unknown maintenance job %q", job)
	}
}

func (s *MaintenanceScheduler) run(job string) {
	id, err := s.RunNow(context.Background(), job)
	if err != nil {
		s.logger.Error("failed to enqueue maintenance job", zap.String("job", job), zap.Error(err))
		return
	}
	s.logger.Info("maintenance job enqueued", zap.String("job", job), zap.String("task_id", id))
}
