package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lingo/internal/scheduler"
	"github.com/mrlokans/lingo/internal/tasks"
)

// TaskStatusReader looks up the status of queued tasks.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// JobRunner enqueues maintenance jobs on demand and reports their schedule.
type JobRunner interface {
	RunNow(ctx context.Context, job string) (string, error)
	NextRuns() map[string]time.Time
	IsRunning() bool
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client TaskStatusReader
	jobs   JobRunner
}

// NewTasksController creates a new TasksController.
func NewTasksController(client TaskStatusReader, jobs JobRunner) *TasksController {
	return &TasksController{client: client, jobs: jobs}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

var taskDescriptions = map[string]string{
	scheduler.JobAuditCleanup: "Delete audit events older than the retention period",
	scheduler.JobPurgeSweep:   "Purge users deleted longer ago than the purge delay",
}

// ListTaskTypes handles GET /internal/tasks/types
// Returns the task types that can be triggered with their next scheduled
// run. Disabled jobs have no next run.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	nextRuns := tc.jobs.NextRuns()

	types := make([]TaskTypeInfo, 0, len(taskDescriptions))
	for _, job := range scheduler.Jobs() {
		info := TaskTypeInfo{Type: job, Description: taskDescriptions[job]}
		if next, ok := nextRuns[job]; ok && !next.IsZero() {
			info.NextRun = &next
		}
		types = append(types, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types":        types,
		"scheduler_running": tc.jobs.IsRunning(),
	})
}

// GetTaskStatus handles GET /internal/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusString(status),
	})
}

// RunTask handles POST /internal/tasks/:type/run
// Manually triggers a maintenance task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")
	if _, ok := taskDescriptions[taskType]; !ok {
		respondBadRequest(c, "unknown task type: "+taskType)
		return
	}

	id, err := tc.jobs.RunNow(c.Request.Context(), taskType)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": id,
		"type":    taskType,
		"message": "task enqueued",
	})
}
